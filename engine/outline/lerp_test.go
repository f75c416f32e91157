package outline

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestLerpBool(t *testing.T) {
	cases := []struct {
		a, b bool
		t    float32
		want bool
	}{
		{false, true, 0, false},
		{false, true, -1, false},
		{false, true, 1, true},
		{false, true, 2, true},
		// A transition between off and on is on for its whole duration.
		{false, true, 0.5, true},
		{true, false, 0.5, true},
		{false, false, 0.5, false},
		{true, true, 0.5, true},
	}
	for _, c := range cases {
		if got := LerpBool(c.a, c.b, c.t); got != c.want {
			t.Errorf("LerpBool(%v, %v, %v) = %v, want %v", c.a, c.b, c.t, got, c.want)
		}
	}
}

func TestVolumeLerp(t *testing.T) {
	from := OutlineVolume{Visible: true, Width: 0, Colour: [4]float32{0, 0, 0, 1}}
	to := OutlineVolume{Visible: false, Width: 10, Colour: [4]float32{1, 0, 0, 1}}

	mid := from.Lerp(to, 0.5)
	if !mid.Visible {
		t.Error("volume turned invisible mid-transition")
	}
	if mid.Width != 5 {
		t.Errorf("mid width = %v, want 5", mid.Width)
	}
	if mid.Colour != [4]float32{0.5, 0, 0, 1} {
		t.Errorf("mid colour = %v", mid.Colour)
	}

	if end := from.Lerp(to, 1); end != to {
		t.Errorf("Lerp at 1 = %+v, want %+v", end, to)
	}
}

func TestStencilLerp(t *testing.T) {
	from := OutlineStencil{Enabled: true, Offset: -4}
	to := OutlineStencil{Enabled: false, Offset: 4}

	mid := from.Lerp(to, 0.5)
	if !mid.Enabled {
		t.Error("stencil disabled mid-transition")
	}
	if mid.Offset != 0 {
		t.Errorf("mid offset = %v, want 0", mid.Offset)
	}
}

func TestVolumeTween(t *testing.T) {
	from := OutlineVolume{Visible: true, Width: 0, Colour: [4]float32{1, 1, 1, 1}}
	to := OutlineVolume{Visible: true, Width: 8, Colour: [4]float32{1, 1, 1, 1}}
	tw := NewVolumeTween(from, to, 2, ease.Linear)

	v, finished := tw.Update(1)
	if finished {
		t.Fatal("tween finished at its midpoint")
	}
	if v.Width != 4 {
		t.Errorf("width after half the duration = %v, want 4", v.Width)
	}

	v, finished = tw.Update(1)
	if !finished {
		t.Error("tween did not finish after its full duration")
	}
	if v.Width != 8 {
		t.Errorf("final width = %v, want 8", v.Width)
	}
}
