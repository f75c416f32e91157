package flood

import (
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
)

func shaderMinBindingSize(t *testing.T, s shader.Shader, group, binding int) uint64 {
	t.Helper()
	desc := s.BindGroupLayoutDescriptor(group)
	for _, e := range desc.Entries {
		if int(e.Binding) == binding {
			return e.Buffer.MinBindingSize
		}
	}
	t.Fatalf("shader %q declares no buffer at group %d binding %d", s.Key(), group, binding)
	return 0
}

// The executor and bind group layouts declare uniform sizes as constants; the
// shaders declare the same structs in WGSL. Both must agree or pipeline
// creation fails at runtime, so derive the shader side from the parsed source
// and compare.
func TestUniformSizesMatchShaders(t *testing.T) {
	outline, err := shader.Outline(shader.ShaderTypeVertex, []string{"VOLUME"})
	if err != nil {
		t.Fatalf("outline shader: %v", err)
	}
	if got := shaderMinBindingSize(t, outline, 0, 0); got != ViewUniformSize {
		t.Errorf("view uniform: shader declares %d bytes, executor declares %d", got, ViewUniformSize)
	}
	if got := shaderMinBindingSize(t, outline, 1, 0); got != InstanceUniformSize {
		t.Errorf("instance uniform: shader declares %d bytes, executor declares %d", got, InstanceUniformSize)
	}

	compose, err := shader.ComposeOutput(shader.ShaderTypeFragment)
	if err != nil {
		t.Fatalf("compose shader: %v", err)
	}
	if got := shaderMinBindingSize(t, compose, 0, 1); got != ComposeUniformSize {
		t.Errorf("compose uniform: shader declares %d bytes, executor declares %d", got, ComposeUniformSize)
	}

	jump, err := shader.JumpFlood(shader.ShaderTypeFragment)
	if err != nil {
		t.Fatalf("jump flood shader: %v", err)
	}
	if got := shaderMinBindingSize(t, jump, 0, 1); got != 4 {
		t.Errorf("jump flood stride uniform: shader declares %d bytes, executor binds 4", got)
	}
}

func TestUniformStructSizes(t *testing.T) {
	if got := unsafe.Sizeof(ViewUniform{}); got != ViewUniformSize {
		t.Errorf("ViewUniform is %d bytes, want %d", got, ViewUniformSize)
	}
	if got := unsafe.Sizeof(InstanceUniform{}); got != InstanceUniformSize {
		t.Errorf("InstanceUniform is %d bytes, want %d", got, InstanceUniformSize)
	}
	if got := unsafe.Sizeof(ComposeUniform{}); got != ComposeUniformSize {
		t.Errorf("ComposeUniform is %d bytes, want %d", got, ComposeUniformSize)
	}
}
