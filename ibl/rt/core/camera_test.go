package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitCameraPosition(t *testing.T) {
	cam := NewOrbitCamera()
	cam.Distance = 5

	assert.True(t, cam.GetPosition().ApproxEqualThreshold(mgl32.Vec3{0, 0, 5}, 1e-5))

	cam.Yaw = mgl32.DegToRad(90)
	pos := cam.GetPosition()
	assert.InDelta(t, 5, pos[0], 1e-4)
	assert.InDelta(t, 0, pos[1], 1e-4)
	assert.InDelta(t, 0, pos[2], 1e-4)
}

func TestCameraCenterRayLooksAtFocus(t *testing.T) {
	cam := NewOrbitCamera()
	cam.Distance = 4
	cam.Yaw = 0.3
	cam.Pitch = 0.2

	c := cam.Camera(16.0 / 9.0)
	origin, dir := c.Ray(0, 0)

	want := cam.Focus.Sub(origin).Normalize()
	assert.True(t, dir.ApproxEqualThreshold(want, 1e-4), "got %v want %v", dir, want)
}

func TestPixelRayOrientation(t *testing.T) {
	cam := NewOrbitCamera()
	c := cam.Camera(1)

	_, topLeft := c.PixelRay(0, 0, 16, 16)
	_, bottomRight := c.PixelRay(15, 15, 16, 16)

	// camera looks down -Z from +Z, so screen right is +X and screen up is +Y
	assert.Less(t, topLeft.X(), float32(0))
	assert.Greater(t, topLeft.Y(), float32(0))
	assert.Greater(t, bottomRight.X(), float32(0))
	assert.Less(t, bottomRight.Y(), float32(0))
}
