package camera

import (
	"math"
	"testing"
)

func dist(a, b Vec3) float64 {
	dx, dy, dz := float64(a.X-b.X), float64(a.Y-b.Y), float64(a.Z-b.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func TestNew(t *testing.T) {
	cam := New(Vec3{}, Vec3{X: 5, Y: 4.5, Z: 7})

	// Should target the box center
	if cam.Target != (Vec3{X: 2.5, Y: 2.25, Z: 3.5}) {
		t.Errorf("expected target at box center, got %+v", cam.Target)
	}
	if cam.Distance <= cam.MinDistance || cam.Distance >= cam.MaxDistance {
		t.Errorf("initial distance %f outside (%f, %f)", cam.Distance, cam.MinDistance, cam.MaxDistance)
	}
}

func TestPositionAtDistance(t *testing.T) {
	cam := New(Vec3{}, Vec3{X: 2, Y: 2, Z: 2})

	testCases := []struct{ yaw, pitch float32 }{
		{0, 0},
		{1, 0.3},
		{3, -1.2},
		{5.5, 1.4},
	}
	for _, tc := range testCases {
		cam.Yaw, cam.Pitch = tc.yaw, tc.pitch
		if d := dist(cam.Position(), cam.Target); math.Abs(d-float64(cam.Distance)) > 1e-4 {
			t.Errorf("yaw %v pitch %v: distance %f, want %f", tc.yaw, tc.pitch, d, cam.Distance)
		}
	}
}

func TestPositionAxes(t *testing.T) {
	cam := New(Vec3{}, Vec3{X: 2, Y: 2, Z: 2})
	cam.Yaw, cam.Pitch = 0, 0

	// Yaw 0 looks down -z from the +z side
	p := cam.Position()
	if math.Abs(float64(p.X-cam.Target.X)) > 1e-5 || p.Z <= cam.Target.Z {
		t.Errorf("yaw 0 position %+v, want on +z side of target", p)
	}

	cam.Pitch = 1
	if cam.Position().Y <= cam.Target.Y {
		t.Error("positive pitch should raise the camera")
	}
}

func TestRotateClampsPitch(t *testing.T) {
	cam := New(Vec3{}, Vec3{X: 1, Y: 1, Z: 1})

	cam.Rotate(0, 10)
	if cam.Pitch != maxPitch {
		t.Errorf("pitch %f, want clamped to %f", cam.Pitch, maxPitch)
	}
	cam.Rotate(0, -20)
	if cam.Pitch != -maxPitch {
		t.Errorf("pitch %f, want clamped to %f", cam.Pitch, -maxPitch)
	}
}

func TestRotateWrapsYaw(t *testing.T) {
	cam := New(Vec3{}, Vec3{X: 1, Y: 1, Z: 1})
	cam.Yaw = 0.1

	cam.Rotate(-0.3, 0)
	if cam.Yaw < 0 || cam.Yaw >= 2*math.Pi {
		t.Errorf("yaw %f not wrapped to [0, 2pi)", cam.Yaw)
	}
	if math.Abs(float64(cam.Yaw)-(2*math.Pi-0.2)) > 1e-5 {
		t.Errorf("yaw %f, want %f", cam.Yaw, 2*math.Pi-0.2)
	}
}

func TestZoomClamping(t *testing.T) {
	cam := New(Vec3{}, Vec3{X: 1, Y: 1, Z: 1})

	cam.ZoomBy(1000)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("distance %f, want clamped to max %f", cam.Distance, cam.MaxDistance)
	}
	cam.ZoomBy(0.0001)
	if cam.Distance != cam.MinDistance {
		t.Errorf("distance %f, want clamped to min %f", cam.Distance, cam.MinDistance)
	}
}

func TestReset(t *testing.T) {
	cam := New(Vec3{}, Vec3{X: 3, Y: 3, Z: 3})
	want := *cam

	cam.Rotate(1, 0.5)
	cam.ZoomBy(0.5)
	cam.Target.X = 99
	cam.Reset()

	if cam.Target != want.Target || cam.Yaw != want.Yaw || cam.Pitch != want.Pitch || cam.Distance != want.Distance {
		t.Errorf("reset state %+v, want %+v", *cam, want)
	}
}
