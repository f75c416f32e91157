package common

import "testing"

func TestURectDimensions(t *testing.T) {
	r := NewURect(10, 20, 110, 70)
	if r.Width() != 100 {
		t.Errorf("Width() = %d, want 100", r.Width())
	}
	if r.Height() != 50 {
		t.Errorf("Height() = %d, want 50", r.Height())
	}
	if r.Empty() {
		t.Error("non-degenerate rect reported empty")
	}

	inverted := NewURect(50, 50, 10, 10)
	if inverted.Width() != 0 || inverted.Height() != 0 {
		t.Errorf("inverted rect dimensions = %dx%d, want 0x0", inverted.Width(), inverted.Height())
	}
	if !inverted.Empty() {
		t.Error("inverted rect not reported empty")
	}
}

func TestURectUnion(t *testing.T) {
	a := NewURect(0, 0, 10, 10)
	b := NewURect(5, 5, 20, 30)

	u := a.Union(b)
	want := NewURect(0, 0, 20, 30)
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}

	// Union with an empty rect returns the other operand unchanged.
	empty := URect{}
	if got := a.Union(empty); got != a {
		t.Errorf("Union with empty = %+v, want %+v", got, a)
	}
	if got := empty.Union(b); got != b {
		t.Errorf("empty.Union = %+v, want %+v", got, b)
	}
}

func TestURectIntersect(t *testing.T) {
	a := NewURect(0, 0, 10, 10)
	b := NewURect(5, 5, 20, 30)

	got := a.Intersect(b)
	want := NewURect(5, 5, 10, 10)
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}

	disjoint := NewURect(50, 50, 60, 60)
	if got := a.Intersect(disjoint); !got.Empty() {
		t.Errorf("disjoint Intersect = %+v, want empty", got)
	}
}

func TestURectContains(t *testing.T) {
	outer := NewURect(0, 0, 100, 100)
	inner := NewURect(10, 10, 90, 90)
	if !outer.Contains(inner) {
		t.Error("outer does not contain inner")
	}
	if inner.Contains(outer) {
		t.Error("inner contains outer")
	}
	straddling := NewURect(50, 50, 150, 60)
	if outer.Contains(straddling) {
		t.Error("outer contains a rect extending past its right edge")
	}
}

func TestViewportRect(t *testing.T) {
	v := Viewport{X: 10, Y: 20, Width: 640, Height: 480}
	r := v.Rect()
	want := NewURect(10, 20, 650, 500)
	if r != want {
		t.Errorf("Viewport.Rect() = %+v, want %+v", r, want)
	}
}
