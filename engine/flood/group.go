package flood

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-outline/common"
)

// Group is a batch of flood items sharing identical outline parameters.
// The whole group is flooded together: one seed pass draws every member,
// one propagation chain runs over the union of their bounds, and one
// composite pass resolves the result.
type Group struct {
	// Width is the members' outline width in logical pixels.
	Width float32
	// Colour is the members' outline colour (RGBA, non-premultiplied).
	Colour [4]float32
	// Bounds is the union of the members' screen-space bounds, used to
	// scissor every pass in the group.
	Bounds common.URect
	// Items are the group's members in sort order.
	Items []Item
}

// GroupItems partitions flood items into groups of identical
// (distance, width, colour). Items are sorted by distance first, with width
// and colour as tie-breakers, so equal items always end up adjacent and the
// grouping is deterministic. Parameter equality is exact: items that differ
// in any component flood separately, since their distance fields and colours
// cannot share a texture.
//
// The input slice is sorted in place.
//
// Parameters:
//   - items: the view's flood candidates with resolved screen bounds
//
// Returns:
//   - []Group: the contiguous groups, in draw order
func GroupItems(items []Item) []Group {
	if len(items) == 0 {
		return nil
	}

	slices.SortFunc(items, compareItems)

	groups := make([]Group, 0, len(items))
	start := 0
	for i := 1; i <= len(items); i++ {
		if i < len(items) && sameGroup(items[i], items[start]) {
			continue
		}
		members := items[start:i]
		g := Group{
			Width:  members[0].Width,
			Colour: members[0].Colour,
			Bounds: members[0].Bounds,
			Items:  members,
		}
		for _, m := range members[1:] {
			g.Bounds = g.Bounds.Union(m.Bounds)
		}
		groups = append(groups, g)
		start = i
	}
	return groups
}

func compareItems(a, b Item) int {
	switch {
	case a.Distance != b.Distance:
		return cmpFloat(a.Distance, b.Distance)
	case a.Width != b.Width:
		return cmpFloat(a.Width, b.Width)
	default:
		for i := range a.Colour {
			if a.Colour[i] != b.Colour[i] {
				return cmpFloat(a.Colour[i], b.Colour[i])
			}
		}
		return 0
	}
}

func cmpFloat(a, b float32) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func sameGroup(a, b Item) bool {
	return a.Distance == b.Distance && a.Width == b.Width && a.Colour == b.Colour
}
