package flood

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/common"
)

func TestGroupItemsMergesIdenticalParameters(t *testing.T) {
	red := [4]float32{1, 0, 0, 1}
	blue := [4]float32{0, 0, 1, 1}

	items := []Item{
		{ID: 1, Distance: 0, Width: 10, Colour: red, Bounds: common.NewURect(0, 0, 10, 10)},
		{ID: 2, Distance: 0, Width: 10, Colour: blue, Bounds: common.NewURect(5, 5, 15, 15)},
		{ID: 3, Distance: 0, Width: 10, Colour: red, Bounds: common.NewURect(20, 20, 30, 30)},
		{ID: 4, Distance: 0, Width: 5, Colour: red, Bounds: common.NewURect(1, 1, 2, 2)},
	}

	groups := GroupItems(items)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	// Sorted by width then colour, the two red width-10 items share a group.
	var redTen *Group
	for i := range groups {
		if groups[i].Width == 10 && groups[i].Colour == red {
			redTen = &groups[i]
		}
	}
	if redTen == nil {
		t.Fatal("no group for the red width-10 items")
	}
	if len(redTen.Items) != 2 {
		t.Fatalf("red width-10 group has %d members, want 2", len(redTen.Items))
	}
	want := common.NewURect(0, 0, 30, 30)
	if redTen.Bounds != want {
		t.Errorf("group bounds = %+v, want union %+v", redTen.Bounds, want)
	}
}

func TestGroupItemsExactEquality(t *testing.T) {
	// Nearly-equal widths must not merge; the flood distance would be wrong
	// for one of them.
	items := []Item{
		{ID: 1, Width: 10, Colour: [4]float32{1, 0, 0, 1}, Bounds: common.NewURect(0, 0, 1, 1)},
		{ID: 2, Width: 10.001, Colour: [4]float32{1, 0, 0, 1}, Bounds: common.NewURect(0, 0, 1, 1)},
	}
	if groups := GroupItems(items); len(groups) != 2 {
		t.Errorf("got %d groups, want 2", len(groups))
	}
}

func TestGroupItemsOrderedByDistance(t *testing.T) {
	items := []Item{
		{ID: 1, Distance: 5, Width: 1, Bounds: common.NewURect(0, 0, 1, 1)},
		{ID: 2, Distance: 1, Width: 1, Bounds: common.NewURect(0, 0, 1, 1)},
		{ID: 3, Distance: 3, Width: 1, Bounds: common.NewURect(0, 0, 1, 1)},
	}
	groups := GroupItems(items)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Items[0].ID != 2 || groups[1].Items[0].ID != 3 || groups[2].Items[0].ID != 1 {
		t.Errorf("groups not in distance order: %d, %d, %d",
			groups[0].Items[0].ID, groups[1].Items[0].ID, groups[2].Items[0].ID)
	}
}

func TestGroupItemsEmpty(t *testing.T) {
	if groups := GroupItems(nil); groups != nil {
		t.Errorf("GroupItems(nil) = %v, want nil", groups)
	}
}
