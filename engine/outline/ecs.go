package outline

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/flood"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// Donburi component types for attaching outlines to world entities. An entity
// is outlined when it carries VolumeComponent and MeshBoundsComponent; the
// remaining components are optional and default per NewComputedOutline.
var (
	VolumeComponent     = donburi.NewComponentType[OutlineVolume]()
	StencilComponent    = donburi.NewComponentType[OutlineStencil]()
	ModeComponent       = donburi.NewComponentType[Mode]()
	PlaneDepthComponent = donburi.NewComponentType[OutlinePlaneDepth]()
	AlphaMaskComponent  = donburi.NewComponentType[OutlineAlphaMask]()
	LayersComponent     = donburi.NewComponentType[RenderLayers]()
	WarmUpComponent     = donburi.NewComponentType[OutlineWarmUp]()
	MeshBoundsComponent = donburi.NewComponentType[flood.MeshBounds]()
)

var outlineQuery = donburi.NewQuery(filter.Contains(VolumeComponent, MeshBoundsComponent))

// Extracted is one entity's outline state pulled out of the world for
// rendering.
type Extracted struct {
	// Entity identifies the source entity.
	Entity donburi.Entity
	// Computed is the resolved outline state.
	Computed ComputedOutline
	// Mesh is the entity's model-space bounding box and world transform.
	Mesh flood.MeshBounds
}

// Resolve computes the entry's outline state with every optional component
// filled in with its default. The entry must carry VolumeComponent.
//
// Parameters:
//   - entry: the entity's world entry
//
// Returns:
//   - ComputedOutline: the resolved state
func Resolve(entry *donburi.Entry) ComputedOutline {
	computed := NewComputedOutline(*VolumeComponent.Get(entry))
	if entry.HasComponent(StencilComponent) {
		computed.Stencil = *StencilComponent.Get(entry)
	}
	if entry.HasComponent(ModeComponent) {
		computed.Mode = *ModeComponent.Get(entry)
	}
	if entry.HasComponent(PlaneDepthComponent) {
		computed.PlaneDepth = *PlaneDepthComponent.Get(entry)
	}
	if entry.HasComponent(AlphaMaskComponent) {
		computed.AlphaMask = *AlphaMaskComponent.Get(entry)
	}
	if entry.HasComponent(LayersComponent) {
		computed.Layers = *LayersComponent.Get(entry)
	}
	return computed
}

// Extract gathers the resolved outline state of every outlined entity whose
// render layers intersect the view's.
//
// Parameters:
//   - world: the donburi world to query
//   - viewLayers: the view's render layer mask
//
// Returns:
//   - []Extracted: the entities to outline this frame, in query order
func Extract(world donburi.World, viewLayers RenderLayers) []Extracted {
	var out []Extracted
	outlineQuery.Each(world, func(entry *donburi.Entry) {
		computed := Resolve(entry)
		if !computed.Layers.Intersects(viewLayers) {
			return
		}
		out = append(out, Extracted{
			Entity:   entry.Entity(),
			Computed: computed,
			Mesh:     *MeshBoundsComponent.Get(entry),
		})
	})
	return out
}
