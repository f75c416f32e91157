package flood

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// The composite pass draws into the scene's attachments and must test
// outline fragments against scene depth under the reversed-depth convention.
func TestCompositeDepthState(t *testing.T) {
	d := compositeDepthState()
	if d.Format != pipeline.FormatDepth {
		t.Errorf("depth format = %v, want %v", d.Format, pipeline.FormatDepth)
	}
	if !d.DepthWriteEnabled {
		t.Error("composite must write depth so later composites sort against earlier ones")
	}
	if d.DepthCompare != wgpu.CompareFunctionGreater {
		t.Errorf("depth compare = %v, want Greater", d.DepthCompare)
	}
}

// The composite fragment's depth comes from the seed texel, so the seed pass
// must store its fragment depth and the composite must emit frag_depth.
func TestCompositeShaderEmitsSeedDepth(t *testing.T) {
	compose, err := shader.ComposeOutput(shader.ShaderTypeFragment)
	if err != nil {
		t.Fatalf("compose shader: %v", err)
	}
	if !strings.Contains(compose.Source(), "frag_depth") {
		t.Error("composite fragment does not declare a frag_depth output")
	}

	seed, err := shader.Outline(shader.ShaderTypeFragment, []string{"FLOOD_INIT"})
	if err != nil {
		t.Fatalf("seed shader: %v", err)
	}
	if !strings.Contains(seed.Source(), "fragment_in.position.z") {
		t.Error("seed fragment does not store its depth in the seed texel")
	}
}

func TestStrideSlot(t *testing.T) {
	cases := []struct {
		stride uint32
		slot   int
	}{
		{1, 0},
		{2, 1},
		{4, 2},
		{256, 8},
		{1 << (strideSlots - 1), strideSlots - 1},
	}
	for _, c := range cases {
		if got := strideSlot(c.stride); got != c.slot {
			t.Errorf("strideSlot(%d) = %d, want %d", c.stride, got, c.slot)
		}
	}
}
