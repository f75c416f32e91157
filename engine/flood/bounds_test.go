package flood

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/common"
)

func testClipFromWorld(eyeZ float32) []float32 {
	proj := make([]float32, 16)
	view := make([]float32, 16)
	clip := make([]float32, 16)
	common.Perspective(proj, float32(math.Pi/3), 640.0/480.0, 0.1, 100)
	common.LookAt(view, 0, 0, eyeZ, 0, 0, 0, 0, 1, 0)
	common.Mul4(clip, proj, view)
	return clip
}

func unitCubeBounds() MeshBounds {
	world := make([]float32, 16)
	common.Identity(world)
	return MeshBounds{
		AABBMin:        [3]float32{-1, -1, -1},
		AABBMax:        [3]float32{1, 1, 1},
		WorldFromLocal: world,
	}
}

func TestScreenSpaceBoundsCentered(t *testing.T) {
	vp := common.Viewport{Width: 640, Height: 480}
	rect, ok := unitCubeBounds().ScreenSpaceBounds(testClipFromWorld(10), vp, 0)
	if !ok {
		t.Fatal("cube in front of the camera reported off screen")
	}
	if rect.Empty() {
		t.Fatal("visible cube produced an empty rect")
	}
	// The cube is centered on the view axis, so its rect contains the center pixel.
	center := common.NewURect(319, 239, 321, 241)
	if !rect.Contains(center) {
		t.Errorf("bounds %+v do not contain the screen center", rect)
	}
	if !vp.Rect().Contains(rect) {
		t.Errorf("bounds %+v escape the viewport", rect)
	}
}

func TestScreenSpaceBoundsBehindCamera(t *testing.T) {
	// Camera at z = -10 looking at the origin puts the cube in front; move
	// the cube far behind instead by translating it past the camera.
	world := make([]float32, 16)
	common.BuildModelMatrix(world, 0, 0, 50, 0, 0, 0, 1, 1, 1)
	b := MeshBounds{
		AABBMin:        [3]float32{-1, -1, -1},
		AABBMax:        [3]float32{1, 1, 1},
		WorldFromLocal: world,
	}

	if _, ok := b.ScreenSpaceBounds(testClipFromWorld(10), common.Viewport{Width: 640, Height: 480}, 0); ok {
		t.Error("cube behind the camera reported visible")
	}
}

func TestScreenSpaceBoundsBorderExpansion(t *testing.T) {
	vp := common.Viewport{Width: 640, Height: 480}
	clip := testClipFromWorld(10)
	b := unitCubeBounds()

	tight, ok := b.ScreenSpaceBounds(clip, vp, 0)
	if !ok {
		t.Fatal("cube reported off screen")
	}
	padded, ok := b.ScreenSpaceBounds(clip, vp, 7)
	if !ok {
		t.Fatal("padded cube reported off screen")
	}

	if padded.MinX != tight.MinX-7 || padded.MinY != tight.MinY-7 ||
		padded.MaxX != tight.MaxX+7 || padded.MaxY != tight.MaxY+7 {
		t.Errorf("border expansion wrong: tight %+v, padded %+v", tight, padded)
	}
}

func TestScreenSpaceBoundsClampedToViewport(t *testing.T) {
	vp := common.Viewport{Width: 640, Height: 480}
	// A huge border must clamp to the viewport edges, never wrap.
	rect, ok := unitCubeBounds().ScreenSpaceBounds(testClipFromWorld(10), vp, 10000)
	if !ok {
		t.Fatal("cube reported off screen")
	}
	if rect != vp.Rect() {
		t.Errorf("over-padded bounds = %+v, want full viewport %+v", rect, vp.Rect())
	}
}

func TestScreenSpaceBoundsViewportOffset(t *testing.T) {
	base := common.Viewport{Width: 640, Height: 480}
	offset := common.Viewport{X: 100, Y: 50, Width: 640, Height: 480}
	clip := testClipFromWorld(10)
	b := unitCubeBounds()

	r0, ok := b.ScreenSpaceBounds(clip, base, 0)
	if !ok {
		t.Fatal("cube reported off screen")
	}
	r1, ok := b.ScreenSpaceBounds(clip, offset, 0)
	if !ok {
		t.Fatal("cube reported off screen in offset viewport")
	}
	want := common.NewURect(r0.MinX+100, r0.MinY+50, r0.MaxX+100, r0.MaxY+50)
	if r1 != want {
		t.Errorf("offset viewport bounds = %+v, want %+v", r1, want)
	}
}

func TestScreenSpaceBoundsDegenerate(t *testing.T) {
	// A zero-size box projects every corner to the same pixel.
	world := make([]float32, 16)
	common.Identity(world)
	b := MeshBounds{
		AABBMin:        [3]float32{0, 0, 0},
		AABBMax:        [3]float32{0, 0, 0},
		WorldFromLocal: world,
	}
	if _, ok := b.ScreenSpaceBounds(testClipFromWorld(10), common.Viewport{Width: 640, Height: 480}, 0); ok {
		t.Error("point-sized box reported visible")
	}
}
