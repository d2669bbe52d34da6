// Package camera provides an orbital camera rig for viewing the field.
// It is pure math with no graphics dependency: the renderer reads the
// eye position each frame and feeds it to the 3D camera.
package camera

import "math"

// Orbit circles a fixed target at a given distance and pitch, spinning
// slowly around the vertical axis. Zoom adjusts the orbit distance
// within clamped bounds.
type Orbit struct {
	// Yaw is the horizontal angle in radians; advances over time.
	Yaw float32

	// Pitch is the vertical angle in radians, clamped short of the poles.
	Pitch float32

	// Distance from the target along the view ray.
	Distance float32

	// SpinRate is the automatic yaw advance in radians per second.
	SpinRate float32

	// Distance constraints.
	MinDistance, MaxDistance float32
}

// Pitch is kept away from straight-up/straight-down to avoid the
// up-vector degeneracy.
const maxPitch = 1.45 // ~83 degrees

// New creates an orbit at the given distance, slightly elevated and
// spinning slowly.
func New(distance float32) *Orbit {
	return &Orbit{
		Pitch:       0.35,
		Distance:    distance,
		SpinRate:    0.15,
		MinDistance: distance * 0.3,
		MaxDistance: distance * 3,
	}
}

// Update advances the automatic spin by dt seconds.
func (o *Orbit) Update(dt float32) {
	o.Yaw += o.SpinRate * dt
	if o.Yaw > 2*math.Pi {
		o.Yaw -= 2 * math.Pi
	}
}

// Rotate offsets yaw and pitch, clamping pitch short of the poles.
func (o *Orbit) Rotate(dyaw, dpitch float32) {
	o.Yaw += dyaw
	o.Pitch = clamp(o.Pitch+dpitch, -maxPitch, maxPitch)
}

// ZoomBy multiplies the orbit distance by the given factor, clamped to
// the configured bounds.
func (o *Orbit) ZoomBy(factor float32) {
	o.Distance = clamp(o.Distance*factor, o.MinDistance, o.MaxDistance)
}

// Position returns the eye position in world coordinates, orbiting the
// origin.
func (o *Orbit) Position() (x, y, z float32) {
	yaw := float64(o.Yaw)
	pitch := float64(o.Pitch)
	d := float64(o.Distance)

	horiz := d * math.Cos(pitch)
	x = float32(horiz * math.Cos(yaw))
	y = float32(d * math.Sin(pitch))
	z = float32(horiz * math.Sin(yaw))
	return x, y, z
}

// Reset restores the default elevation and a front-facing yaw, keeping
// the current distance bounds.
func (o *Orbit) Reset(distance float32) {
	o.Yaw = 0
	o.Pitch = 0.35
	o.Distance = clamp(distance, o.MinDistance, o.MaxDistance)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
