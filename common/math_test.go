package common

import (
	"math"
	"testing"
)

func TestNextPowerOfTwo(t *testing.T) {
	cases := []struct {
		in, want uint32
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{6, 8},
		{7, 8},
		{8, 8},
		{9, 16},
		{1000, 1024},
		{1 << 30, 1 << 30},
		{(1 << 30) + 1, 1 << 31},
	}
	for _, c := range cases {
		if got := NextPowerOfTwo(c.in); got != c.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestTransformPoint3(t *testing.T) {
	// Translation by (1, 2, 3) with uniform scale 2.
	m := make([]float32, 16)
	BuildModelMatrix(m, 1, 2, 3, 0, 0, 0, 2, 2, 2)

	p := TransformPoint3(m, 1, 1, 1)
	want := [3]float32{3, 4, 5}
	for i := range want {
		if math.Abs(float64(p[i]-want[i])) > 1e-5 {
			t.Errorf("TransformPoint3 component %d = %f, want %f", i, p[i], want[i])
		}
	}
}

func TestProjectPoint3CarriesW(t *testing.T) {
	m := make([]float32, 16)
	Perspective(m, float32(math.Pi/2), 1, 0.1, 100)

	// A point in front of the camera (negative Z in view space) must project
	// to positive w; a point behind it to negative w.
	front := ProjectPoint3(m, 0, 0, -5)
	if front[3] <= 0 {
		t.Errorf("point in front of camera projected to w = %f, want > 0", front[3])
	}
	behind := ProjectPoint3(m, 0, 0, 5)
	if behind[3] >= 0 {
		t.Errorf("point behind camera projected to w = %f, want < 0", behind[3])
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 3, -1, 7, 0.4, 1.1, -0.3, 2, 0.5, 1.5)

	inv := make([]float32, 16)
	if !Invert4(inv, m) {
		t.Fatal("Invert4 reported a well-formed model matrix as singular")
	}

	out := make([]float32, 16)
	Mul4(out, m, inv)

	ident := make([]float32, 16)
	Identity(ident)
	for i := range out {
		if math.Abs(float64(out[i]-ident[i])) > 1e-4 {
			t.Errorf("m * inv(m) element %d = %f, want %f", i, out[i], ident[i])
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	m := make([]float32, 16) // all zeros, determinant 0
	out := make([]float32, 16)
	out[0] = 42
	if Invert4(out, m) {
		t.Error("Invert4 inverted a singular matrix")
	}
	if out[0] != 42 {
		t.Error("Invert4 modified the output on a singular input")
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	proj := make([]float32, 16)
	view := make([]float32, 16)
	viewProj := make([]float32, 16)
	Perspective(proj, float32(math.Pi/3), 1, 0.1, 100)
	LookAt(view, 0, 0, 10, 0, 0, 0, 0, 1, 0)
	Mul4(viewProj, proj, view)

	f := ExtractFrustumFromMatrix(viewProj)

	if !f.IntersectsAABB(-1, -1, -1, 1, 1, 1) {
		t.Error("unit box at the origin reported outside the frustum")
	}
	if f.IntersectsAABB(100, 100, 100, 102, 102, 102) {
		t.Error("box far outside the frustum reported inside")
	}
	if f.IntersectsAABB(-1, -1, 50, 1, 1, 52) {
		t.Error("box behind the camera reported inside")
	}
}
