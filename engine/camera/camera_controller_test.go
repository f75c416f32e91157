package camera

import (
	"math"
	"testing"
)

func dist(ax, ay, az, bx, by, bz float32) float32 {
	dx := float64(ax - bx)
	dy := float64(ay - by)
	dz := float64(az - bz)
	return float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

func TestZoomClampsToRadiusBounds(t *testing.T) {
	cc := NewCameraController(
		WithRadius(50),
		WithRadiusBounds(10, 100),
		WithZoomSpeed(1000),
	)

	cc.Zoom(1)
	if got := cc.Radius(); got != 10 {
		t.Errorf("zoom in past min: radius = %v, want 10", got)
	}

	cc.Zoom(-1)
	if got := cc.Radius(); got != 100 {
		t.Errorf("zoom out past max: radius = %v, want 100", got)
	}
}

func TestOrbitStepsRespectElevationBounds(t *testing.T) {
	cc := NewCameraController(
		WithElevation(0.5),
		WithElevationBounds(0.1, 1.2),
		WithOrbitSpeed(0.3),
	)

	for i := 0; i < 20; i++ {
		cc.OrbitUp()
	}
	if got := cc.Elevation(); got != 1.2 {
		t.Errorf("elevation after orbiting up = %v, want clamp at 1.2", got)
	}

	for i := 0; i < 20; i++ {
		cc.OrbitDown()
	}
	if got := cc.Elevation(); got != 0.1 {
		t.Errorf("elevation after orbiting down = %v, want clamp at 0.1", got)
	}
}

func TestOrbitStepsChangeAzimuth(t *testing.T) {
	cc := NewCameraController(WithAzimuth(0), WithOrbitSpeed(0.25))

	cc.OrbitRight()
	if got := cc.Azimuth(); got != 0.25 {
		t.Errorf("azimuth after OrbitRight = %v, want 0.25", got)
	}
	cc.OrbitLeft()
	cc.OrbitLeft()
	if got := cc.Azimuth(); got != -0.25 {
		t.Errorf("azimuth after two OrbitLeft = %v, want -0.25", got)
	}
}

// Panning moves camera and pivot together, so the distance between them must
// not change.
func TestPanPreservesOrbitDistance(t *testing.T) {
	cc := NewCameraController(
		WithRadius(40),
		WithTarget(3, 2, 1),
		WithElevation(0.4),
		WithAzimuth(0.7),
		WithPanSpeed(5),
	)

	px, py, pz := cc.Position()
	tx, ty, tz := cc.Target()
	before := dist(px, py, pz, tx, ty, tz)

	cc.PanRight(2)
	cc.PanUp(-1)
	cc.PanForward(3)

	px, py, pz = cc.Position()
	tx, ty, tz = cc.Target()
	after := dist(px, py, pz, tx, ty, tz)

	if math.Abs(float64(after-before)) > 1e-3 {
		t.Errorf("pan changed orbit distance: before %v, after %v", before, after)
	}
	if got := cc.Radius(); got != 40 {
		t.Errorf("pan changed radius: got %v, want 40", got)
	}
}

func TestSetTargetShiftsPosition(t *testing.T) {
	cc := NewCameraController(
		WithRadius(25),
		WithTarget(0, 0, 0),
		WithElevation(0.3),
	)

	px, py, pz := cc.Position()
	cc.SetTarget(10, -4, 6)
	nx, ny, nz := cc.Position()

	// Position is recomputed from the same spherical offset, so it moves by
	// exactly the target delta.
	if math.Abs(float64(nx-px-10)) > 1e-4 ||
		math.Abs(float64(ny-py+4)) > 1e-4 ||
		math.Abs(float64(nz-pz-6)) > 1e-4 {
		t.Errorf("position after SetTarget = (%v, %v, %v), want (%v, %v, %v)",
			nx, ny, nz, px+10, py-4, pz+6)
	}
}

func TestSetRadiusClamps(t *testing.T) {
	cc := NewCameraController(WithRadiusBounds(5, 50))

	cc.SetRadius(1)
	if got := cc.Radius(); got != 5 {
		t.Errorf("SetRadius below min: got %v, want 5", got)
	}
	cc.SetRadius(500)
	if got := cc.Radius(); got != 50 {
		t.Errorf("SetRadius above max: got %v, want 50", got)
	}
}
