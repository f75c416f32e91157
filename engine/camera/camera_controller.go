package camera

// CameraController owns the positional state the camera reads each frame.
// It models an orbit rig: the camera sits on a sphere around a pivot point,
// described by radius, azimuth and elevation, with planar panning that moves
// the pivot and camera together so the orbit relationship is preserved.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at/pivot point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the pivot point and recomputes position from the
	// spherical coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Zoom adjusts the orbit radius. Positive delta zooms in (closer to the
	// target), clamped to the radius bounds.
	//
	// Parameters:
	//   - delta: zoom amount, scaled by the configured zoom speed
	Zoom(delta float32)

	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to max elevation.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to min elevation.
	OrbitDown()

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)

	// MouseSensitivity returns the mouse drag sensitivity multiplier, used by
	// callers converting cursor deltas into azimuth/elevation changes.
	//
	// Returns:
	//   - float32: multiplier for mouse movement
	MouseSensitivity() float32

	// PanRight translates the camera and target along the camera's local
	// right axis. Positive delta moves right, negative moves left.
	//
	// Parameters:
	//   - delta: pan amount, scaled by the configured pan speed
	PanRight(delta float32)

	// PanUp translates the camera and target along the camera's local up
	// axis. Positive delta moves up, negative moves down.
	//
	// Parameters:
	//   - delta: pan amount, scaled by the configured pan speed
	PanUp(delta float32)

	// PanForward translates the camera and target along the camera's local
	// forward axis (dolly). Positive delta moves toward the target.
	//
	// Parameters:
	//   - delta: pan amount, scaled by the configured pan speed
	PanForward(delta float32)
}
