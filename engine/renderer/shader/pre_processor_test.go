package shader

import (
	"strings"
	"testing"
)

func TestPreProcessorConditionals(t *testing.T) {
	source := strings.Join([]string{
		"always",
		"//#ifdef FOO",
		"foo on",
		"//#else",
		"foo off",
		"//#endif",
		"//#ifndef BAR",
		"no bar",
		"//#endif",
	}, "\n")

	got, err := NewPreProcessor([]string{"FOO"}).Process(source)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	for _, want := range []string{"always", "foo on", "no bar"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "foo off") {
		t.Errorf("else branch of a defined flag survived:\n%s", got)
	}

	got, err = NewPreProcessor(nil).Process(source)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if strings.Contains(got, "foo on") || !strings.Contains(got, "foo off") {
		t.Errorf("undefined flag kept the wrong branch:\n%s", got)
	}
	if !strings.Contains(got, "no bar") {
		// BAR is undefined, so ifndef keeps the block.
		t.Errorf("ifndef dropped its block for an undefined name:\n%s", got)
	}
}

func TestPreProcessorNesting(t *testing.T) {
	source := strings.Join([]string{
		"//#ifdef OUTER",
		"//#ifdef INNER",
		"both",
		"//#endif",
		"outer only",
		"//#endif",
	}, "\n")

	got, err := NewPreProcessor([]string{"OUTER"}).Process(source)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if strings.Contains(got, "both") {
		t.Error("inner block survived without its def")
	}
	if !strings.Contains(got, "outer only") {
		t.Error("outer block dropped")
	}

	// A dropped outer block suppresses even defined inner blocks.
	got, err = NewPreProcessor([]string{"INNER"}).Process(source)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if strings.Contains(got, "both") || strings.Contains(got, "outer only") {
		t.Errorf("dropped outer block leaked content:\n%s", got)
	}
}

func TestPreProcessorSubstitution(t *testing.T) {
	got, err := NewPreProcessor([]string{"CHANNEL=2"}).Process("let v = mask[#{CHANNEL}];")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if got != "let v = mask[2];" {
		t.Errorf("substitution produced %q", got)
	}
}

func TestPreProcessorErrors(t *testing.T) {
	cases := []string{
		"//#ifdef FOO\nunclosed",
		"//#endif",
		"//#else",
		"//#ifdef",
		"//#frobnicate FOO\n",
	}
	for _, source := range cases {
		if _, err := NewPreProcessor(nil).Process(source); err == nil {
			t.Errorf("malformed source %q did not fail", source)
		}
	}
}
