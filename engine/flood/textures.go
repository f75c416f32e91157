package flood

import (
	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture is one flood distance texture. The production implementation wraps
// a wgpu texture; tests substitute stubs.
type Texture interface {
	// View returns the texture's render/sample view.
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view
	View() *wgpu.TextureView

	// Width returns the texture width in pixels.
	//
	// Returns:
	//   - uint32: the width
	Width() uint32

	// Height returns the texture height in pixels.
	//
	// Returns:
	//   - uint32: the height
	Height() uint32

	// Release frees the underlying GPU resources.
	Release()
}

// TextureAllocator creates flood distance textures. Implementations may pool
// released textures and hand them back on the next acquire.
type TextureAllocator interface {
	// Acquire returns a distance texture of the given size.
	//
	// Parameters:
	//   - width, height: the texture size in physical pixels
	//
	// Returns:
	//   - Texture: the texture
	//   - error: an error if allocation fails
	Acquire(width, height uint32) (Texture, error)
}

// Textures is the ping-pong pair the jump flood reads from and writes to.
// Each pass samples the input texture and writes the output texture, then
// the pair flips so the next pass consumes what was just written.
type Textures struct {
	flip          bool
	a, b          Texture
	width, height uint32
}

// Prepare (re)allocates the pair for a view's physical target size. Existing
// textures are kept when the size is unchanged; on resize both are released
// and re-acquired. The flip state resets so the first write of the frame
// lands in a known texture.
//
// Parameters:
//   - alloc: the texture allocator
//   - width, height: the view's physical target size in pixels
//
// Returns:
//   - error: an error if allocation fails
func (t *Textures) Prepare(alloc TextureAllocator, width, height uint32) error {
	if t.a == nil || t.b == nil || t.width != width || t.height != height {
		t.Release()
		a, err := alloc.Acquire(width, height)
		if err != nil {
			return err
		}
		b, err := alloc.Acquire(width, height)
		if err != nil {
			a.Release()
			return err
		}
		t.a, t.b = a, b
		t.width, t.height = width, height
		common.Logger().Debug("flood textures allocated", "width", width, "height", height)
	}
	t.flip = false
	return nil
}

// Input returns the texture the next pass reads from.
//
// Returns:
//   - Texture: the current input texture
func (t *Textures) Input() Texture {
	if t.flip {
		return t.b
	}
	return t.a
}

// Output returns the texture the next pass writes to.
//
// Returns:
//   - Texture: the current output texture
func (t *Textures) Output() Texture {
	if t.flip {
		return t.a
	}
	return t.b
}

// Flip swaps the input and output roles. Called after every pass that wrote
// the output texture, including the seed pass.
func (t *Textures) Flip() {
	t.flip = !t.flip
}

// Release frees both textures. Safe to call on an empty pair.
func (t *Textures) Release() {
	if t.a != nil {
		t.a.Release()
		t.a = nil
	}
	if t.b != nil {
		t.b.Release()
		t.b = nil
	}
	t.width, t.height = 0, 0
	t.flip = false
}
