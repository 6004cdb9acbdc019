package core

import "github.com/go-gl/mathgl/mgl32"

// SurfacePoint is everything the shading pass needs about one shaded point.
type SurfacePoint struct {
	Position   mgl32.Vec3
	Normal     mgl32.Vec3
	Tangent    mgl32.Vec3
	Handedness float32 // -1 or +1
	View       mgl32.Vec3 // from the point towards the eye

	Albedo    mgl32.Vec3
	Metallic  float32
	Roughness float32
	AO        float32

	Emissive       mgl32.Vec3
	EmissiveFactor float32
}

// Frame re-orthonormalizes the tangent frame with Gram-Schmidt and returns
// (N, T, B). B is flipped by the stored handedness.
func (sp SurfacePoint) Frame() (n, t, b mgl32.Vec3) {
	n = SafeNormalize(sp.Normal, mgl32.Vec3{0, 0, 1})
	t = sp.Tangent.Sub(n.Mul(n.Dot(sp.Tangent)))
	t = SafeNormalize(t, anyPerpendicular(n))

	sign := float32(1)
	if sp.Handedness < 0 {
		sign = -1
	}
	b = n.Cross(t).Mul(sign)
	return n, t, b
}

func anyPerpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if n[0] > 0.9 || n[0] < -0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return n.Cross(axis).Normalize()
}
