package outline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/flood"
	"github.com/yohamta/donburi"
)

func testMeshBounds() flood.MeshBounds {
	world := make([]float32, 16)
	common.Identity(world)
	return flood.MeshBounds{
		AABBMin:        [3]float32{-1, -1, -1},
		AABBMax:        [3]float32{1, 1, 1},
		WorldFromLocal: world,
	}
}

func TestExtractDefaults(t *testing.T) {
	world := donburi.NewWorld()
	entity := world.Create(VolumeComponent, MeshBoundsComponent)
	entry := world.Entry(entity)
	VolumeComponent.SetValue(entry, OutlineVolume{Visible: true, Width: 3, Colour: [4]float32{1, 0, 0, 1}})
	MeshBoundsComponent.SetValue(entry, testMeshBounds())

	extracted := Extract(world, DefaultRenderLayers)
	if len(extracted) != 1 {
		t.Fatalf("extracted %d entities, want 1", len(extracted))
	}

	e := extracted[0]
	if e.Entity != entity {
		t.Errorf("entity = %v, want %v", e.Entity, entity)
	}
	if !e.Computed.Stencil.Enabled {
		t.Error("missing stencil component did not default to enabled")
	}
	if e.Computed.Mode != ModeExtrudeFlat {
		t.Errorf("missing mode component defaulted to %d", e.Computed.Mode)
	}
	if e.Computed.Layers != DefaultRenderLayers {
		t.Errorf("missing layers component defaulted to %d", e.Computed.Layers)
	}
	if e.Mesh.AABBMax != [3]float32{1, 1, 1} {
		t.Errorf("mesh bounds not carried: %+v", e.Mesh.AABBMax)
	}
}

func TestExtractOptionalComponents(t *testing.T) {
	world := donburi.NewWorld()
	entity := world.Create(VolumeComponent, MeshBoundsComponent, StencilComponent, ModeComponent)
	entry := world.Entry(entity)
	VolumeComponent.SetValue(entry, OutlineVolume{Visible: true, Width: 3})
	MeshBoundsComponent.SetValue(entry, testMeshBounds())
	StencilComponent.SetValue(entry, OutlineStencil{Enabled: false, Offset: 2})
	ModeComponent.SetValue(entry, ModeFloodFlatDoubleSided)

	extracted := Extract(world, DefaultRenderLayers)
	if len(extracted) != 1 {
		t.Fatalf("extracted %d entities, want 1", len(extracted))
	}
	c := extracted[0].Computed
	if c.Stencil.Enabled || c.Stencil.Offset != 2 {
		t.Errorf("stencil component not applied: %+v", c.Stencil)
	}
	if c.Mode != ModeFloodFlatDoubleSided {
		t.Errorf("mode component not applied: %d", c.Mode)
	}
}

func TestExtractFiltersByRenderLayers(t *testing.T) {
	world := donburi.NewWorld()

	onLayerTwo := world.Entry(world.Create(VolumeComponent, MeshBoundsComponent, LayersComponent))
	VolumeComponent.SetValue(onLayerTwo, OutlineVolume{Visible: true, Width: 1})
	MeshBoundsComponent.SetValue(onLayerTwo, testMeshBounds())
	LayersComponent.SetValue(onLayerTwo, RenderLayers(1<<2))

	onDefault := world.Entry(world.Create(VolumeComponent, MeshBoundsComponent))
	VolumeComponent.SetValue(onDefault, OutlineVolume{Visible: true, Width: 1})
	MeshBoundsComponent.SetValue(onDefault, testMeshBounds())

	if got := Extract(world, DefaultRenderLayers); len(got) != 1 {
		t.Errorf("default-layer view extracted %d entities, want 1", len(got))
	}
	if got := Extract(world, RenderLayers(1<<2)); len(got) != 1 {
		t.Errorf("layer-two view extracted %d entities, want 1", len(got))
	}
	if got := Extract(world, DefaultRenderLayers|RenderLayers(1<<2)); len(got) != 2 {
		t.Errorf("combined view extracted %d entities, want 2", len(got))
	}
	if got := Extract(world, RenderLayers(1<<5)); got != nil {
		t.Errorf("unused layer extracted %d entities, want none", len(got))
	}
}
