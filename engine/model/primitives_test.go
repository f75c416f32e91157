package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
)

func TestCubeMesh(t *testing.T) {
	m := NewCubeMesh(1)

	stride := int(m.Layout.Stride())
	if stride != floatsPerVertex*4 {
		t.Fatalf("expected stride %d, got %d", floatsPerVertex*4, stride)
	}
	if got := len(m.VertexData) / stride; got != 24 {
		t.Errorf("expected 24 vertices, got %d", got)
	}
	if m.IndexCount != 36 {
		t.Errorf("expected 36 indices, got %d", m.IndexCount)
	}
	if len(m.IndexData) != 36*4 {
		t.Errorf("expected %d index bytes, got %d", 36*4, len(m.IndexData))
	}

	mn, mx := m.Bounds()
	if mn != [3]float32{-0.5, -0.5, -0.5} || mx != [3]float32{0.5, 0.5, 0.5} {
		t.Errorf("unexpected bounds: min %v max %v", mn, mx)
	}

	if !m.Layout.Contains(pipeline.AttributeOutlineNormal) {
		t.Error("cube layout should carry a smoothed outline normal")
	}
	if !m.Layout.Contains(pipeline.AttributeUV) {
		t.Error("cube layout should carry UVs")
	}
}

func TestSphereMesh(t *testing.T) {
	const segments, rings = 16, 8
	m := NewSphereMesh(2, segments, rings)

	stride := int(m.Layout.Stride())
	wantVerts := (rings + 1) * (segments + 1)
	if got := len(m.VertexData) / stride; got != wantVerts {
		t.Errorf("expected %d vertices, got %d", wantVerts, got)
	}
	if want := rings * segments * 6; m.IndexCount != want {
		t.Errorf("expected %d indices, got %d", want, m.IndexCount)
	}

	mn, mx := m.Bounds()
	for a := 0; a < 3; a++ {
		if mn[a] < -2.001 || mx[a] > 2.001 {
			t.Errorf("bounds exceed radius: min %v max %v", mn, mx)
		}
	}
	if mx[1] != 2 || mn[1] != -2 {
		t.Errorf("sphere poles should touch the radius: min %v max %v", mn, mx)
	}
}

func TestSphereMeshClampsSubdivisions(t *testing.T) {
	m := NewSphereMesh(1, 1, 1)
	if m.IndexCount != 3*2*6 {
		t.Errorf("expected clamped 3x2 sphere, got %d indices", m.IndexCount)
	}
}

func TestPlaneMesh(t *testing.T) {
	m := NewPlaneMesh(4, 2)

	if m.IndexCount != 6 {
		t.Errorf("expected 6 indices, got %d", m.IndexCount)
	}
	mn, mx := m.Bounds()
	if mn != [3]float32{-2, 0, -1} || mx != [3]float32{2, 0, 1} {
		t.Errorf("unexpected bounds: min %v max %v", mn, mx)
	}
}
