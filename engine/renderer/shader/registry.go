package shader

import (
	_ "embed"
	"sort"
	"strings"
	"sync"
)

//go:embed wgsl/outline.wgsl
var outlineSource string

//go:embed wgsl/jump_flood.wgsl
var jumpFloodSource string

//go:embed wgsl/compose_output.wgsl
var composeOutputSource string

// registry caches processed shaders by name, stage and def set so repeated
// pipeline compiles reuse the parsed result.
var registry sync.Map

func cached(name string, shaderType ShaderType, source string, defs []string) (Shader, error) {
	key := cacheKey(name, shaderType, defs)
	if s, ok := registry.Load(key); ok {
		return s.(Shader), nil
	}
	s, err := NewShader(key, shaderType, source, defs)
	if err != nil {
		return nil, err
	}
	actual, _ := registry.LoadOrStore(key, s)
	return actual.(Shader), nil
}

func cacheKey(name string, shaderType ShaderType, defs []string) string {
	sorted := make([]string, len(defs))
	copy(sorted, defs)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(name)
	switch shaderType {
	case ShaderTypeVertex:
		b.WriteString("_vs")
	case ShaderTypeFragment:
		b.WriteString("_fs")
	}
	for _, d := range sorted {
		b.WriteByte('+')
		b.WriteString(d)
	}
	return b.String()
}

// Outline returns the outline mesh-pass shader (stencil, volume or flood
// seed init) processed for one variant's defs.
//
// Parameters:
//   - shaderType: ShaderTypeVertex or ShaderTypeFragment
//   - defs: the variant's shader defs
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if pre-processing fails
func Outline(shaderType ShaderType, defs []string) (Shader, error) {
	return cached("outline", shaderType, outlineSource, defs)
}

// JumpFlood returns the jump-flood propagation shader.
//
// Parameters:
//   - shaderType: ShaderTypeVertex or ShaderTypeFragment
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if pre-processing fails
func JumpFlood(shaderType ShaderType) (Shader, error) {
	return cached("jump_flood", shaderType, jumpFloodSource, nil)
}

// ComposeOutput returns the flood composite shader.
//
// Parameters:
//   - shaderType: ShaderTypeVertex or ShaderTypeFragment
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if pre-processing fails
func ComposeOutput(shaderType ShaderType) (Shader, error) {
	return cached("compose_output", shaderType, composeOutputSource, nil)
}
