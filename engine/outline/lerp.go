package outline

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// LerpBool interpolates between two flags. Since a flag has no midpoint, any
// blend of an enabled and a disabled state counts as enabled: the property
// stays on for the whole transition.
//
// Parameters:
//   - a: the value at t = 0
//   - b: the value at t = 1
//   - t: the interpolation parameter
//
// Returns:
//   - bool: a at or below zero, b at or above one, a OR b in between
func LerpBool(a, b bool, t float32) bool {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	default:
		return a || b
	}
}

func lerpFloat(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Lerp interpolates between two volumes. Width and colour blend linearly;
// visibility follows LerpBool.
//
// Parameters:
//   - other: the value at t = 1
//   - t: the interpolation parameter
//
// Returns:
//   - OutlineVolume: the blended volume
func (v OutlineVolume) Lerp(other OutlineVolume, t float32) OutlineVolume {
	out := OutlineVolume{
		Visible: LerpBool(v.Visible, other.Visible, t),
		Width:   lerpFloat(v.Width, other.Width, t),
	}
	for i := range out.Colour {
		out.Colour[i] = lerpFloat(v.Colour[i], other.Colour[i], t)
	}
	return out
}

// Lerp interpolates between two stencils. The offset blends linearly;
// enablement follows LerpBool.
//
// Parameters:
//   - other: the value at t = 1
//   - t: the interpolation parameter
//
// Returns:
//   - OutlineStencil: the blended stencil
func (s OutlineStencil) Lerp(other OutlineStencil, t float32) OutlineStencil {
	return OutlineStencil{
		Enabled: LerpBool(s.Enabled, other.Enabled, t),
		Offset:  lerpFloat(s.Offset, other.Offset, t),
	}
}

// VolumeTween animates an outline volume between two states over time.
// Pair it with an OutlineWarmUp covering both endpoints so the transition
// never stalls on pipeline compilation.
type VolumeTween struct {
	from, to OutlineVolume
	progress *gween.Tween
}

// NewVolumeTween creates a tween from one volume state to another.
//
// Parameters:
//   - from: the starting volume
//   - to: the target volume
//   - duration: the transition length in seconds
//   - easing: the gween easing function
//
// Returns:
//   - *VolumeTween: the tween, positioned at the start
func NewVolumeTween(from, to OutlineVolume, duration float32, easing ease.TweenFunc) *VolumeTween {
	return &VolumeTween{
		from:     from,
		to:       to,
		progress: gween.New(0, 1, duration, easing),
	}
}

// Update advances the tween and returns the current blended volume.
//
// Parameters:
//   - dt: the elapsed time in seconds
//
// Returns:
//   - OutlineVolume: the volume at the new position
//   - bool: true once the tween has finished
func (t *VolumeTween) Update(dt float32) (OutlineVolume, bool) {
	p, finished := t.progress.Update(dt)
	return t.from.Lerp(t.to, p), finished
}

// StencilTween animates an outline stencil between two states over time.
type StencilTween struct {
	from, to OutlineStencil
	progress *gween.Tween
}

// NewStencilTween creates a tween from one stencil state to another.
//
// Parameters:
//   - from: the starting stencil
//   - to: the target stencil
//   - duration: the transition length in seconds
//   - easing: the gween easing function
//
// Returns:
//   - *StencilTween: the tween, positioned at the start
func NewStencilTween(from, to OutlineStencil, duration float32, easing ease.TweenFunc) *StencilTween {
	return &StencilTween{
		from:     from,
		to:       to,
		progress: gween.New(0, 1, duration, easing),
	}
}

// Update advances the tween and returns the current blended stencil.
//
// Parameters:
//   - dt: the elapsed time in seconds
//
// Returns:
//   - OutlineStencil: the stencil at the new position
//   - bool: true once the tween has finished
func (t *StencilTween) Update(dt float32) (OutlineStencil, bool) {
	p, finished := t.progress.Update(dt)
	return t.from.Lerp(t.to, p), finished
}
