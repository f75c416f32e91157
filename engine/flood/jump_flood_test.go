package flood

import (
	"slices"
	"testing"
)

func TestPassStrides(t *testing.T) {
	cases := []struct {
		offset float32
		want   []uint32
	}{
		{0, nil},
		{-3, nil},
		{0.5, []uint32{1}},
		{1, []uint32{1}},
		{2, []uint32{2, 1}},
		{4, []uint32{4, 2, 1}},
		// Width 10 at scale 1: half the distance plus one is 6, rounded up
		// to 8, giving four passes.
		{10, []uint32{8, 4, 2, 1}},
		{16, []uint32{16, 8, 4, 2, 1}},
		{100, []uint32{64, 32, 16, 8, 4, 2, 1}},
	}
	for _, c := range cases {
		if got := PassStrides(c.offset); !slices.Equal(got, c.want) {
			t.Errorf("PassStrides(%v) = %v, want %v", c.offset, got, c.want)
		}
	}
}

func TestPassStridesCoverOffset(t *testing.T) {
	// The halving sequence must sum to at least the propagation distance,
	// otherwise distant pixels never learn about their nearest seed.
	for _, offset := range []float32{1, 3, 7, 10, 33, 250, 1999} {
		var reach uint32
		for _, s := range PassStrides(offset) {
			reach += s
		}
		if float32(reach) < offset {
			t.Errorf("strides for offset %v reach only %d pixels", offset, reach)
		}
	}
}

func TestScaledOffset(t *testing.T) {
	if got := ScaledOffset(10, 2); got != 20 {
		t.Errorf("ScaledOffset(10, 2) = %v, want 20", got)
	}
	if got := ScaledOffset(10, 1); got != 10 {
		t.Errorf("ScaledOffset(10, 1) = %v, want 10", got)
	}
}
