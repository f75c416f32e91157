// pre_processor.go implements the WGSL shader pre-processor. It scans shader
// source code for //#-prefixed directives and resolves them against the set of
// shader defs a pipeline variant was specialized with, so one WGSL file can
// serve every variant of a pass.
//
// Supported directives, each on its own line:
//   - //#ifdef NAME   keeps the enclosed block when NAME is defined
//   - //#ifndef NAME  keeps the enclosed block when NAME is not defined
//   - //#else         inverts the innermost open block
//   - //#endif        closes the innermost open block
//
// A def may carry a value ("ALPHA_MASK_CHANNEL=1"); inside kept blocks every
// occurrence of #{NAME} is replaced with the def's value.
package shader

import (
	"fmt"
	"strings"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// defs maps def names to their values. A def declared without a value maps
	// to the empty string.
	defs map[string]string
}

// PreProcessor processes raw WGSL shader source code containing //# directives,
// keeping or dropping conditional blocks and substituting def values, producing
// source ready for module creation.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and resolves its conditional
	// blocks and #{NAME} substitutions against the pre-processor's defs.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing directives
	//
	// Returns:
	//   - string: the processed WGSL shader source code
	//   - error: an error if a directive is malformed or unbalanced
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor for one set of shader defs.
//
// Parameters:
//   - defs: the variant's defs, each "NAME" or "NAME=value"
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(defs []string) PreProcessor {
	m := make(map[string]string, len(defs))
	for _, d := range defs {
		name, value, _ := strings.Cut(d, "=")
		m[name] = value
	}
	return &preProcessor{defs: m}
}

const directivePrefix = "//#"

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	// Each open conditional pushes whether its branch is kept. A line is
	// emitted only when every enclosing branch is kept.
	var stack []bool

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, directivePrefix) {
			if allKept(stack) {
				out = append(out, p.substitute(line))
			}
			continue
		}

		directive, arg, _ := strings.Cut(strings.TrimPrefix(trimmed, directivePrefix), " ")
		arg = strings.TrimSpace(arg)
		switch directive {
		case "ifdef", "ifndef":
			if arg == "" {
				return "", fmt.Errorf("line %d: %s%s requires a def name", i+1, directivePrefix, directive)
			}
			_, defined := p.defs[arg]
			stack = append(stack, defined == (directive == "ifdef"))
		case "else":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: %selse without an open block", i+1, directivePrefix)
			}
			stack[len(stack)-1] = !stack[len(stack)-1]
		case "endif":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: %sendif without an open block", i+1, directivePrefix)
			}
			stack = stack[:len(stack)-1]
		default:
			return "", fmt.Errorf("line %d: unknown directive %s%s", i+1, directivePrefix, directive)
		}
	}
	if len(stack) != 0 {
		return "", fmt.Errorf("unbalanced conditional: %d block(s) left open", len(stack))
	}
	return strings.Join(out, "\n"), nil
}

// allKept reports whether every enclosing conditional branch is kept.
func allKept(stack []bool) bool {
	for _, kept := range stack {
		if !kept {
			return false
		}
	}
	return true
}

// substitute replaces every #{NAME} occurrence with the def's value. Unknown
// names are left intact so module creation surfaces them as WGSL errors.
func (p *preProcessor) substitute(line string) string {
	if !strings.Contains(line, "#{") {
		return line
	}
	for name, value := range p.defs {
		if value == "" {
			continue
		}
		line = strings.ReplaceAll(line, "#{"+name+"}", value)
	}
	return line
}
