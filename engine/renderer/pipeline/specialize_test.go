package pipeline

import (
	"errors"
	"slices"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func standardLayout() MeshLayout {
	return NewMeshLayout(
		Attribute{Semantic: AttributePosition, Format: wgpu.VertexFormatFloat32x3},
		Attribute{Semantic: AttributeNormal, Format: wgpu.VertexFormatFloat32x3},
		Attribute{Semantic: AttributeUV, Format: wgpu.VertexFormatFloat32x2},
	)
}

func TestMeshLayoutIDStable(t *testing.T) {
	a := standardLayout()
	b := standardLayout()
	if a.ID() != b.ID() {
		t.Errorf("identical layouts have distinct IDs: %x != %x", a.ID(), b.ID())
	}

	c := NewMeshLayout(
		Attribute{Semantic: AttributePosition, Format: wgpu.VertexFormatFloat32x3},
	)
	if a.ID() == c.ID() {
		t.Error("layouts with different attribute sets share an ID")
	}
	if a.Stride() != 32 {
		t.Errorf("Stride() = %d, want 32", a.Stride())
	}
}

func TestSpecializeCullModes(t *testing.T) {
	layout := standardLayout()
	view := NewViewKey().WithMsaaSamples(1)

	cases := []struct {
		name     string
		entity   EntityKey
		passType PassType
		want     wgpu.CullMode
	}{
		{
			name:     "flat double-sided disables culling",
			entity:   NewEntityKey().WithDepthMode(DepthModeFlat).WithDoubleSided(true),
			passType: PassTypeVolume,
			want:     wgpu.CullModeNone,
		},
		{
			name:     "flat single-sided culls back faces",
			entity:   NewEntityKey().WithDepthMode(DepthModeFlat),
			passType: PassTypeVolume,
			want:     wgpu.CullModeBack,
		},
		{
			name:     "stencil culls back faces",
			entity:   NewEntityKey().WithDepthMode(DepthModeReal),
			passType: PassTypeStencil,
			want:     wgpu.CullModeBack,
		},
		{
			name:     "extruded volume culls front faces",
			entity:   NewEntityKey().WithDepthMode(DepthModeReal),
			passType: PassTypeVolume,
			want:     wgpu.CullModeFront,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			key := DeriveKey(view, c.entity.WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList), c.passType)
			d, err := Specialize(key, layout)
			if err != nil {
				t.Fatalf("Specialize returned error: %v", err)
			}
			if d.CullMode != c.want {
				t.Errorf("CullMode = %d, want %d", d.CullMode, c.want)
			}
		})
	}
}

func TestSpecializeVolumeTargets(t *testing.T) {
	layout := standardLayout()
	entity := NewEntityKey().
		WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
		WithDepthMode(DepthModeReal)

	// Opaque LDR: replace blend into the default format.
	key := DeriveKey(NewViewKey().WithMsaaSamples(1), entity, PassTypeVolume)
	d, err := Specialize(key, layout)
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	if d.ColorTarget == nil {
		t.Fatal("volume pass has no colour target")
	}
	if d.ColorTarget.Format != FormatLdrColor {
		t.Errorf("Format = %d, want LDR default", d.ColorTarget.Format)
	}
	if d.ColorTarget.Blend.Color.SrcFactor != wgpu.BlendFactorOne {
		t.Error("opaque volume did not select replace blending")
	}
	if d.DepthStencil == nil {
		t.Fatal("volume pass has no depth state")
	}
	if d.DepthStencil.DepthCompare != wgpu.CompareFunctionGreater {
		t.Errorf("DepthCompare = %d, want Greater (reversed depth)", d.DepthStencil.DepthCompare)
	}
	if !d.DepthStencil.DepthWriteEnabled {
		t.Error("volume pass does not write depth")
	}

	// Transparent HDR: alpha blend into the HDR format.
	key = DeriveKey(
		NewViewKey().WithMsaaSamples(4).WithHdrFormat(true),
		entity.WithTransparent(true),
		PassTypeVolume)
	d, err = Specialize(key, layout)
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	if d.ColorTarget.Format != FormatHdrColor {
		t.Errorf("Format = %d, want HDR", d.ColorTarget.Format)
	}
	if d.ColorTarget.Blend.Color.SrcFactor != wgpu.BlendFactorSrcAlpha {
		t.Error("transparent volume did not select alpha blending")
	}
	if d.MsaaSamples != 4 {
		t.Errorf("MsaaSamples = %d, want 4", d.MsaaSamples)
	}
}

func TestSpecializeStencilHasNoColorTarget(t *testing.T) {
	key := DeriveKey(
		NewViewKey().WithMsaaSamples(1),
		NewEntityKey().
			WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
			WithDepthMode(DepthModeReal),
		PassTypeStencil)
	d, err := Specialize(key, standardLayout())
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	if d.ColorTarget != nil {
		t.Error("stencil pass has a colour target")
	}
	if d.DepthStencil == nil {
		t.Error("stencil pass has no depth state")
	}
}

func TestSpecializeFloodInit(t *testing.T) {
	key := DeriveKey(
		NewViewKey().WithMsaaSamples(8).WithHdrFormat(true),
		NewEntityKey().
			WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
			WithDepthMode(DepthModeFlat).
			WithAlphaMaskTexture(true).
			WithAlphaMaskChannel(ChannelG),
		PassTypeFloodInit)
	d, err := Specialize(key, standardLayout())
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	if d.ColorTarget == nil || d.ColorTarget.Format != FormatFlood {
		t.Error("flood seed pass does not target the distance texture format")
	}
	if d.DepthStencil != nil {
		t.Error("flood seed pass has a depth state")
	}
	if d.MsaaSamples != 1 {
		t.Errorf("MsaaSamples = %d, want 1", d.MsaaSamples)
	}
	if !slices.Contains(d.VertexDefs, "FLOOD_INIT") || !slices.Contains(d.FragmentDefs, "FLOOD_INIT") {
		t.Error("flood seed pass is missing the FLOOD_INIT define")
	}
	if !slices.Contains(d.FragmentDefs, "ALPHA_MASK_CHANNEL=1") {
		t.Errorf("fragment defines %v are missing the alpha-mask channel", d.FragmentDefs)
	}
}

func TestSpecializeVertexAttributeSelection(t *testing.T) {
	outlineLayout := NewMeshLayout(
		Attribute{Semantic: AttributePosition, Format: wgpu.VertexFormatFloat32x3},
		Attribute{Semantic: AttributeNormal, Format: wgpu.VertexFormatFloat32x3},
		Attribute{Semantic: AttributeOutlineNormal, Format: wgpu.VertexFormatFloat32x3},
	)

	entity := NewEntityKey().
		WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
		WithDepthMode(DepthModeReal).
		WithVertexOffsetZero(false)
	key := DeriveKey(NewViewKey().WithMsaaSamples(1), entity, PassTypeVolume)

	d, err := Specialize(key, outlineLayout)
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	// The dedicated outline normal at offset 24 wins over the shading normal.
	var normalAttr *wgpu.VertexAttribute
	for i := range d.VertexBuffer.Attributes {
		if d.VertexBuffer.Attributes[i].ShaderLocation == locationNormal {
			normalAttr = &d.VertexBuffer.Attributes[i]
		}
	}
	if normalAttr == nil {
		t.Fatal("extruding variant did not request a normal attribute")
	}
	if normalAttr.Offset != 24 {
		t.Errorf("normal attribute offset = %d, want 24 (outline normal)", normalAttr.Offset)
	}

	// A zero-offset variant must not request a normal at all.
	key = DeriveKey(NewViewKey().WithMsaaSamples(1), entity.WithVertexOffsetZero(true), PassTypeVolume)
	d, err = Specialize(key, NewMeshLayout(
		Attribute{Semantic: AttributePosition, Format: wgpu.VertexFormatFloat32x3},
	))
	if err != nil {
		t.Fatalf("Specialize of zero-offset variant returned error: %v", err)
	}
	for _, a := range d.VertexBuffer.Attributes {
		if a.ShaderLocation == locationNormal {
			t.Error("zero-offset variant requested a normal attribute")
		}
	}
}

func TestSpecializeMissingAttribute(t *testing.T) {
	bare := NewMeshLayout(
		Attribute{Semantic: AttributePosition, Format: wgpu.VertexFormatFloat32x3},
	)
	entity := NewEntityKey().
		WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
		WithDepthMode(DepthModeReal).
		WithVertexOffsetZero(false)
	key := DeriveKey(NewViewKey().WithMsaaSamples(1), entity, PassTypeVolume)

	if _, err := Specialize(key, bare); !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("Specialize error = %v, want ErrMissingAttribute", err)
	}
}
