package outline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

func testComputed() ComputedOutline {
	c := NewComputedOutline(OutlineVolume{Visible: true, Width: 5, Colour: [4]float32{0, 1, 0, 1}})
	return c
}

func TestComputedOutlineEntityKey(t *testing.T) {
	c := testComputed()
	key := pipeline.Key(c.EntityKey(wgpu.PrimitiveTopologyTriangleList, false))

	if key.DepthMode() != pipeline.DepthModeFlat {
		t.Errorf("default mode depth = %d, want flat", key.DepthMode())
	}
	if key.PrimitiveTopology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("topology = %d", key.PrimitiveTopology())
	}
	if key.Transparent() {
		t.Error("opaque colour marked transparent")
	}
	if key.VertexOffsetZero() {
		t.Error("width 5 marked as zero vertex offset")
	}
	if !key.StencilVertexOffsetZero() {
		t.Error("default stencil offset not marked zero")
	}
	if !key.PlaneOffsetZero() {
		t.Error("default plane offset not marked zero")
	}
	if key.DoubleSided() || key.AlphaMaskTexture() || key.MorphTargets() {
		t.Error("unset components leaked into the key")
	}
}

func TestComputedOutlineEntityKeyVariants(t *testing.T) {
	c := testComputed()
	c.Volume.Width = 0
	c.Volume.Colour[3] = 0.5
	c.Stencil.Offset = 2
	c.Mode = ModeExtrudeFlatDoubleSided
	c.PlaneDepth.ModelPlaneOffset = [3]float32{0, 1, 0}

	key := pipeline.Key(c.EntityKey(wgpu.PrimitiveTopologyTriangleStrip, true))
	if !key.Transparent() {
		t.Error("alpha 0.5 not marked transparent")
	}
	if !key.VertexOffsetZero() {
		t.Error("width 0 not marked as zero vertex offset")
	}
	if key.StencilVertexOffsetZero() {
		t.Error("stencil offset 2 marked zero")
	}
	if key.PlaneOffsetZero() {
		t.Error("non-zero plane offset marked zero")
	}
	if !key.DoubleSided() {
		t.Error("double-sided mode not marked")
	}
	if !key.MorphTargets() {
		t.Error("morph targets not marked")
	}
}

func TestComputedOutlinePlaneOffsetCollapsesForRealDepth(t *testing.T) {
	c := testComputed()
	c.Mode = ModeExtrudeReal
	c.PlaneDepth.ModelPlaneOffset = [3]float32{0, 1, 0}

	key := pipeline.Key(c.EntityKey(wgpu.PrimitiveTopologyTriangleList, false))
	if key.DepthMode() != pipeline.DepthModeReal {
		t.Fatalf("depth mode = %d, want real", key.DepthMode())
	}
	// Real depth never reads the plane, so the offset must not split variants.
	if !key.PlaneOffsetZero() {
		t.Error("plane offset split a real-depth variant")
	}
}

func TestComputedOutlinePassTypes(t *testing.T) {
	c := testComputed()
	want := []pipeline.PassType{pipeline.PassTypeStencil, pipeline.PassTypeVolume}
	got := c.PassTypes()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("PassTypes = %v, want %v", got, want)
	}

	c.Mode = ModeFloodFlat
	got = c.PassTypes()
	if len(got) != 2 || got[1] != pipeline.PassTypeFloodInit {
		t.Errorf("flood mode PassTypes = %v", got)
	}

	c.Stencil.Enabled = false
	c.Volume.Visible = false
	if got := c.PassTypes(); got != nil {
		t.Errorf("fully disabled PassTypes = %v, want none", got)
	}
}

func TestWarmUpDerivedKeys(t *testing.T) {
	c := testComputed()
	view := pipeline.NewViewKey().WithMsaaSamples(4)

	base := NewOutlineWarmUp().DerivedKeys(c, view, wgpu.PrimitiveTopologyTriangleList, false)
	if len(base) != 2 {
		t.Fatalf("default warm-up covers %d keys, want 2 (stencil + volume)", len(base))
	}

	// Transparency doubles the volume variants but the stencil pass ignores
	// the flag, so one stencil key serves both.
	withBlend := NewOutlineWarmUp().WithTransparency(true).
		DerivedKeys(c, view, wgpu.PrimitiveTopologyTriangleList, false)
	if len(withBlend) != 3 {
		t.Errorf("transparency warm-up covers %d keys, want 3", len(withBlend))
	}

	// Vertex offsets double the volume pass and double the stencil pass; the
	// flag the other pass does not read dedupes away.
	withOffsets := NewOutlineWarmUp().WithVertexOffsets(true).
		DerivedKeys(c, view, wgpu.PrimitiveTopologyTriangleList, false)
	if len(withOffsets) != 4 {
		t.Errorf("vertex-offset warm-up covers %d keys, want 4", len(withOffsets))
	}
}

func TestWarmUpCoversDisabledPasses(t *testing.T) {
	c := testComputed()
	c.Stencil.Enabled = false
	c.Volume.Visible = false
	view := pipeline.NewViewKey().WithMsaaSamples(1)

	if keys := NewOutlineWarmUp().DerivedKeys(c, view, wgpu.PrimitiveTopologyTriangleList, false); keys != nil {
		t.Errorf("disabled passes produced %d keys, want none", len(keys))
	}

	keys := NewOutlineWarmUp().
		WithDisabledStencil(true).
		WithDisabledVolume(true).
		DerivedKeys(c, view, wgpu.PrimitiveTopologyTriangleList, false)
	if len(keys) != 2 {
		t.Errorf("forced warm-up covers %d keys, want 2", len(keys))
	}
	for _, k := range keys {
		if _, err := pipeline.Specialize(k, testMeshLayout()); err != nil {
			t.Errorf("warm-up key %08x does not specialize: %v", uint32(k), err)
		}
	}
}

func testMeshLayout() pipeline.MeshLayout {
	return pipeline.NewMeshLayout(
		pipeline.Attribute{Semantic: pipeline.AttributePosition, Format: wgpu.VertexFormatFloat32x3},
		pipeline.Attribute{Semantic: pipeline.AttributeNormal, Format: wgpu.VertexFormatFloat32x3},
	)
}
