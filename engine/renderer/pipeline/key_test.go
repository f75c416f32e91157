package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestKeyFieldRoundTrip(t *testing.T) {
	k := Key(NewEntityKey().
		WithPrimitiveTopology(wgpu.PrimitiveTopologyLineStrip).
		WithMorphTargets(true).
		WithDepthMode(DepthModeReal).
		WithTransparent(true).
		WithVertexOffsetZero(true).
		WithStencilVertexOffsetZero(true).
		WithPlaneOffsetZero(true).
		WithDoubleSided(true).
		WithAlphaMaskTexture(true).
		WithAlphaMaskChannel(ChannelB)) |
		Key(NewViewKey().WithMsaaSamples(4).WithHdrFormat(true))

	if got := k.MsaaSamples(); got != 4 {
		t.Errorf("MsaaSamples() = %d, want 4", got)
	}
	if !k.HdrFormat() {
		t.Error("HdrFormat() = false, want true")
	}
	if got := k.PrimitiveTopology(); got != wgpu.PrimitiveTopologyLineStrip {
		t.Errorf("PrimitiveTopology() = %d, want LineStrip", got)
	}
	if !k.MorphTargets() {
		t.Error("MorphTargets() = false, want true")
	}
	if got := k.DepthMode(); got != DepthModeReal {
		t.Errorf("DepthMode() = %d, want DepthModeReal", got)
	}
	if !k.Transparent() || !k.VertexOffsetZero() || !k.StencilVertexOffsetZero() ||
		!k.PlaneOffsetZero() || !k.DoubleSided() || !k.AlphaMaskTexture() {
		t.Error("one or more boolean fields did not round-trip")
	}
	if got := k.AlphaMaskChannel(); got != ChannelB {
		t.Errorf("AlphaMaskChannel() = %d, want ChannelB", got)
	}
}

func TestKeyFieldsAreDisjoint(t *testing.T) {
	// Each With* transform must touch only its own bits: applying a field to
	// a fully-populated key and then clearing it restores the original.
	base := NewEntityKey().
		WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleStrip).
		WithDepthMode(DepthModeFlat).
		WithTransparent(true).
		WithDoubleSided(true).
		WithAlphaMaskChannel(ChannelG)

	if got := base.WithMorphTargets(true).WithMorphTargets(false); got != base {
		t.Errorf("morph-targets toggle disturbed other fields: %08x != %08x", got, base)
	}
	if got := base.WithVertexOffsetZero(true).WithVertexOffsetZero(false); got != base {
		t.Errorf("vertex-offset toggle disturbed other fields: %08x != %08x", got, base)
	}
	if got := base.WithAlphaMaskChannel(ChannelA).WithAlphaMaskChannel(ChannelG); got != base {
		t.Errorf("alpha-channel rewrite disturbed other fields: %08x != %08x", got, base)
	}
}

func TestKeyTransformsIdempotentAndCommutative(t *testing.T) {
	a := NewEntityKey().WithTransparent(true).WithDoubleSided(true)
	b := NewEntityKey().WithDoubleSided(true).WithTransparent(true)
	if a != b {
		t.Errorf("transform order changed the key: %08x != %08x", a, b)
	}
	if got := a.WithTransparent(true); got != a {
		t.Errorf("repeated transform changed the key: %08x != %08x", got, a)
	}
}

func TestKeyDecodePanicsOnInvalidOrdinal(t *testing.T) {
	cases := []struct {
		name string
		call func()
	}{
		// samples-1 = 5 decodes to 6 samples, which is not a supported count
		{"msaa", func() { Key(0x5).MsaaSamples() }},
		// topology ordinal 7 is unassigned
		{"topology", func() { Key(0x7 << topologyShift).PrimitiveTopology() }},
		{"depth mode", func() { Key(0x3 << depthModeShift).DepthMode() }},
		{"depth mode zero", func() { Key(0).DepthMode() }},
		{"pass type zero", func() { Key(0).PassType() }},
	}
	for _, c := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: decode of invalid ordinal did not panic", c.name)
				}
			}()
			c.call()
		}()
	}
}

func TestDeriveKeyStencil(t *testing.T) {
	view := NewViewKey().WithMsaaSamples(4).WithHdrFormat(true)
	entity := NewEntityKey().
		WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
		WithDepthMode(DepthModeReal).
		WithTransparent(true).
		WithVertexOffsetZero(false).
		WithStencilVertexOffsetZero(true)

	k := Key(DeriveKey(view, entity, PassTypeStencil))

	if k.PassType() != PassTypeStencil {
		t.Errorf("PassType() = %d, want Stencil", k.PassType())
	}
	if k.HdrFormat() {
		t.Error("stencil key kept the HDR flag")
	}
	if k.Transparent() {
		t.Error("stencil key kept the transparency flag")
	}
	if !k.VertexOffsetZero() {
		t.Error("stencil key did not adopt the stencil vertex offset")
	}
	if k.StencilVertexOffsetZero() {
		t.Error("stencil key kept the raw stencil-offset flag after folding")
	}
	if k.MsaaSamples() != 4 {
		t.Errorf("MsaaSamples() = %d, want 4", k.MsaaSamples())
	}
}

func TestDeriveKeyVolume(t *testing.T) {
	view := NewViewKey().WithMsaaSamples(2).WithHdrFormat(true)
	entity := NewEntityKey().
		WithDepthMode(DepthModeFlat).
		WithTransparent(true).
		WithAlphaMaskTexture(true).
		WithAlphaMaskChannel(ChannelR).
		WithStencilVertexOffsetZero(true)

	k := Key(DeriveKey(view, entity, PassTypeVolume))

	if k.PassType() != PassTypeVolume {
		t.Errorf("PassType() = %d, want Volume", k.PassType())
	}
	if !k.HdrFormat() || !k.Transparent() {
		t.Error("volume key lost view HDR or entity transparency")
	}
	if k.AlphaMaskTexture() {
		t.Error("volume key kept the alpha-mask texture flag")
	}
	if k.AlphaMaskChannel() != ChannelA {
		t.Errorf("AlphaMaskChannel() = %d, want canonical ChannelA", k.AlphaMaskChannel())
	}
	if k.StencilVertexOffsetZero() {
		t.Error("volume key kept the stencil-offset flag")
	}
}

func TestDeriveKeyFloodInit(t *testing.T) {
	view := NewViewKey().WithMsaaSamples(8).WithHdrFormat(true)
	entity := NewEntityKey().
		WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
		WithDepthMode(DepthModeFlat).
		WithTransparent(true).
		WithVertexOffsetZero(false).
		WithPlaneOffsetZero(false).
		WithAlphaMaskTexture(true).
		WithAlphaMaskChannel(ChannelG)

	k := Key(DeriveKey(view, entity, PassTypeFloodInit))

	if k.PassType() != PassTypeFloodInit {
		t.Errorf("PassType() = %d, want FloodInit", k.PassType())
	}
	// The seed pass renders into the fixed-format distance texture: the view
	// half is dropped entirely.
	if k.MsaaSamples() != 1 || k.HdrFormat() {
		t.Error("flood-init key kept view parameters")
	}
	if k.Transparent() {
		t.Error("flood-init key kept the transparency flag")
	}
	if !k.VertexOffsetZero() || !k.PlaneOffsetZero() {
		t.Error("flood-init key did not force zero offsets")
	}
	// Alpha masking still applies to seeding.
	if !k.AlphaMaskTexture() || k.AlphaMaskChannel() != ChannelG {
		t.Error("flood-init key lost the alpha-mask fields")
	}
}

func TestDeriveKeyCollapsesEquivalentVariants(t *testing.T) {
	// Two entities differing only in fields the flood seed pass ignores must
	// derive to the same key, so they share one compiled pipeline.
	base := NewEntityKey().
		WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
		WithDepthMode(DepthModeFlat)
	opaque := base.WithTransparent(false).WithVertexOffsetZero(true)
	transparent := base.WithTransparent(true).WithVertexOffsetZero(false)

	viewA := NewViewKey().WithMsaaSamples(1)
	viewB := NewViewKey().WithMsaaSamples(8).WithHdrFormat(true)

	ka := DeriveKey(viewA, opaque, PassTypeFloodInit)
	kb := DeriveKey(viewB, transparent, PassTypeFloodInit)
	if ka != kb {
		t.Errorf("equivalent flood-init variants derived distinct keys: %08x != %08x", ka, kb)
	}
}
