// Package camera provides an orbit camera around the simulation domain.
package camera

import "math"

// Vec3 is a position in world coordinates (meters).
type Vec3 struct {
	X, Y, Z float32
}

// Orbit circles a target point at a given distance. Yaw rotates about the
// vertical axis, pitch tilts toward the poles.
type Orbit struct {
	// Target is the point the camera looks at
	Target Vec3

	// Yaw and Pitch in radians
	Yaw, Pitch float32

	// Distance from target
	Distance float32

	// Distance constraints
	MinDistance, MaxDistance float32

	home orbitState
}

// orbitState is the framing restored by Reset.
type orbitState struct {
	Target     Vec3
	Yaw, Pitch float32
	Distance   float32
}

// maxPitch keeps the camera off the poles so the up vector stays valid.
const maxPitch = 1.5

// New creates a camera framing the box [min, max].
func New(min, max Vec3) *Orbit {
	center := Vec3{
		X: (min.X + max.X) / 2,
		Y: (min.Y + max.Y) / 2,
		Z: (min.Z + max.Z) / 2,
	}
	dx, dy, dz := max.X-min.X, max.Y-min.Y, max.Z-min.Z
	diag := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))

	o := &Orbit{
		Target:      center,
		Yaw:         0.7,
		Pitch:       0.45,
		Distance:    diag * 1.3,
		MinDistance: diag * 0.2,
		MaxDistance: diag * 4,
	}
	o.home = orbitState{Target: o.Target, Yaw: o.Yaw, Pitch: o.Pitch, Distance: o.Distance}
	return o
}

// Position returns the camera position in world coordinates.
func (o *Orbit) Position() Vec3 {
	cp, sp := cos(o.Pitch), sin(o.Pitch)
	cy, sy := cos(o.Yaw), sin(o.Yaw)
	return Vec3{
		X: o.Target.X + o.Distance*cp*sy,
		Y: o.Target.Y + o.Distance*sp,
		Z: o.Target.Z + o.Distance*cp*cy,
	}
}

// Rotate changes yaw and pitch by the given deltas in radians. Yaw wraps
// to [0, 2pi), pitch is clamped short of the poles.
func (o *Orbit) Rotate(dYaw, dPitch float32) {
	o.Yaw = mod(o.Yaw+dYaw, 2*math.Pi)
	o.Pitch = clamp(o.Pitch+dPitch, -maxPitch, maxPitch)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (o *Orbit) SetDistance(d float32) {
	o.Distance = clamp(d, o.MinDistance, o.MaxDistance)
}

// ZoomBy multiplies the current distance by the given factor.
func (o *Orbit) ZoomBy(factor float32) {
	o.SetDistance(o.Distance * factor)
}

// Reset returns the camera to the framing it was created with.
func (o *Orbit) Reset() {
	o.Target = o.home.Target
	o.Yaw, o.Pitch = o.home.Yaw, o.home.Pitch
	o.Distance = o.home.Distance
}

func sin(a float32) float32 { return float32(math.Sin(float64(a))) }
func cos(a float32) float32 { return float32(math.Cos(float64(a))) }

// mod returns a positive modulo.
func mod(a, b float32) float32 {
	r := float32(math.Mod(float64(a), float64(b)))
	if r < 0 {
		r += b
	}
	return r
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
