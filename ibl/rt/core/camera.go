package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera carries the per-frame camera parameters consumed by the shading pass.
type Camera struct {
	Position   mgl32.Vec3
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Ray returns the world space ray through normalized device coordinates
// (ndcX, ndcY), both in [-1, 1] with +Y up.
func (c Camera) Ray(ndcX, ndcY float32) (origin, dir mgl32.Vec3) {
	invVP := c.Projection.Mul4(c.View).Inv()

	near := invVP.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := invVP.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	nearW := near.Vec3().Mul(1 / near.W())
	farW := far.Vec3().Mul(1 / far.W())

	return c.Position, farW.Sub(nearW).Normalize()
}

// PixelRay returns the ray through the centre of pixel (x, y) of a
// width x height target, row 0 at the top.
func (c Camera) PixelRay(x, y, width, height int) (origin, dir mgl32.Vec3) {
	ndcX := 2*(float32(x)+0.5)/float32(width) - 1
	ndcY := 1 - 2*(float32(y)+0.5)/float32(height)
	return c.Ray(ndcX, ndcY)
}

// OrbitCamera orbits a focus point; Y is up.
type OrbitCamera struct {
	Yaw      float32
	Pitch    float32
	Distance float32
	Focus    mgl32.Vec3
	FovY     float32 // radians
	Near     float32
	Far      float32
}

func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Yaw:      0,
		Pitch:    0,
		Distance: 10,
		Focus:    mgl32.Vec3{0, 0, 0},
		FovY:     mgl32.DegToRad(45),
		Near:     0.1,
		Far:      100,
	}
}

func (c *OrbitCamera) GetPosition() mgl32.Vec3 {
	cp := math32.Cos(c.Pitch)
	offset := mgl32.Vec3{
		cp * math32.Sin(c.Yaw),
		math32.Sin(c.Pitch),
		cp * math32.Cos(c.Yaw),
	}
	return c.Focus.Add(offset.Mul(c.Distance))
}

func (c *OrbitCamera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.GetPosition(), c.Focus, mgl32.Vec3{0, 1, 0})
}

// Camera snapshots the orbit state for a target of the given aspect ratio.
func (c *OrbitCamera) Camera(aspect float32) Camera {
	return Camera{
		Position:   c.GetPosition(),
		View:       c.GetViewMatrix(),
		Projection: mgl32.Perspective(c.FovY, aspect, c.Near, c.Far),
	}
}
