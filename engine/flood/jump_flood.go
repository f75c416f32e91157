package flood

import (
	"github.com/Carmen-Shannon/oxy-outline/common"
)

// ScaledOffset converts an outline width in logical pixels to the physical
// pixel distance the flood must propagate.
//
// Parameters:
//   - width: the outline width in logical pixels
//   - scale: the view's physical-to-logical pixel ratio
//
// Returns:
//   - float32: the propagation distance in physical pixels
func ScaledOffset(width, scale float32) float32 {
	return width * scale
}

// PassStrides returns the jump-flood sampling strides for a propagation
// distance, largest first. Each pass samples at the given stride and the
// strides halve down to one, so a seed can reach any pixel within the
// distance in len(strides) passes.
//
// The first stride is the next power of two at or above half the distance
// plus one, which is the smallest start that still covers the full distance
// once the halving sequence is summed. A distance of zero or less needs no
// passes and returns nil.
//
// Parameters:
//   - offset: the propagation distance in physical pixels
//
// Returns:
//   - []uint32: the stride for each pass, halving from first to last; nil if
//     no propagation is needed
func PassStrides(offset float32) []uint32 {
	if offset <= 0 {
		return nil
	}
	stride := common.NextPowerOfTwo(uint32(offset)/2 + 1)
	strides := make([]uint32, 0, 8)
	for stride > 0 {
		strides = append(strides, stride)
		stride >>= 1
	}
	return strides
}
