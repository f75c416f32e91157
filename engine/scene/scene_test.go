package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/flood"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
)

func TestSceneDefaults(t *testing.T) {
	s := NewScene(WithName("test"))
	if s.Name() != "test" {
		t.Errorf("name = %q, want %q", s.Name(), "test")
	}
	if !s.Active() {
		t.Error("scenes should be active by default")
	}
	if s.Layers() != outline.DefaultRenderLayers {
		t.Errorf("layers = %d, want the default layer", s.Layers())
	}
	if s.Count() != 0 {
		t.Errorf("count = %d, want 0", s.Count())
	}
}

func TestSceneAddWithoutRenderer(t *testing.T) {
	s := NewScene()
	_, err := s.Add(model.NewCubeMesh(1), outline.OutlineVolume{Visible: true, Width: 2})
	if !errors.Is(err, ErrNoRenderer) {
		t.Fatalf("Add without renderer returned %v, want ErrNoRenderer", err)
	}
	if s.Count() != 0 {
		t.Errorf("failed Add left %d entities", s.Count())
	}
}

func TestScenePrepareConfigurationErrors(t *testing.T) {
	s := NewScene()
	if err := s.Prepare(0.016); !errors.Is(err, ErrNoRenderer) {
		t.Errorf("Prepare without renderer returned %v, want ErrNoRenderer", err)
	}
}

func TestSceneDrawPhasesRequirePrepare(t *testing.T) {
	s := NewScene()
	if err := s.DrawCalls(); !errors.Is(err, ErrNotPrepared) {
		t.Errorf("DrawCalls returned %v, want ErrNotPrepared", err)
	}
	if err := s.DrawFlood(); !errors.Is(err, ErrNotPrepared) {
		t.Errorf("DrawFlood returned %v, want ErrNotPrepared", err)
	}
}

func TestSceneSetWorldFromLocalUnknownEntity(t *testing.T) {
	s := NewScene()
	world := make([]float32, 16)
	if err := s.SetWorldFromLocal(12345, world); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("SetWorldFromLocal returned %v, want ErrUnknownEntity", err)
	}
}

func TestBindGroupLayoutSizes(t *testing.T) {
	view := viewBindGroupLayout()
	if got := view.Entries[0].Buffer.MinBindingSize; got != flood.ViewUniformSize {
		t.Errorf("view uniform binding size = %d, want %d", got, flood.ViewUniformSize)
	}
	instance := instanceBindGroupLayout()
	if got := instance.Entries[0].Buffer.MinBindingSize; got != flood.InstanceUniformSize {
		t.Errorf("instance uniform binding size = %d, want %d", got, flood.InstanceUniformSize)
	}
	mask := alphaMaskBindGroupLayout()
	if len(mask.Entries) != 2 {
		t.Fatalf("alpha mask layout has %d entries, want 2", len(mask.Entries))
	}
}

func TestWorldBounds(t *testing.T) {
	world := make([]float32, 16)
	common.BuildModelMatrix(world, 10, 0, 0, 0, 0, 0, 2, 2, 2)

	mn, mx := worldBounds(flood.MeshBounds{
		AABBMin:        [3]float32{-1, -1, -1},
		AABBMax:        [3]float32{1, 1, 1},
		WorldFromLocal: world,
	})
	if mn != [3]float32{8, -2, -2} || mx != [3]float32{12, 2, 2} {
		t.Errorf("world bounds = %v..%v, want (8,-2,-2)..(12,2,2)", mn, mx)
	}
}

func TestDistance3(t *testing.T) {
	if d := distance3(0, 0, 0, [3]float32{3, 4, 0}); d != 5 {
		t.Errorf("distance3 = %v, want 5", d)
	}
	if d := distance3(1, 1, 1, [3]float32{1, 1, 1}); d != 0 {
		t.Errorf("distance3 at the eye = %v, want 0", d)
	}
}
