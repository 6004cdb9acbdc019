package brdf

import (
	"math/bits"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RadicalInverse mirrors the bits of i around the binary point (van der Corput
// base 2).
func RadicalInverse(i uint32) float32 {
	return float32(bits.Reverse32(i)) * 2.3283064365386963e-10 // 1 / 2^32
}

// Hammersley returns the i-th point of an n-point Hammersley set in [0,1)^2.
func Hammersley(i, n uint32) mgl32.Vec2 {
	return mgl32.Vec2{float32(i) / float32(n), RadicalInverse(i)}
}

// HammersleySet precomputes all n points so convolution loops can share them.
func HammersleySet(n int) []mgl32.Vec2 {
	set := make([]mgl32.Vec2, n)
	for i := range set {
		set[i] = Hammersley(uint32(i), uint32(n))
	}
	return set
}

// ImportanceSampleGGX maps xi to a half vector distributed around n following
// the GGX lobe of the given alpha, using the inverse CDF
// cos = sqrt((1-xi.y) / (1 + (alpha^2-1) xi.y)).
func ImportanceSampleGGX(xi mgl32.Vec2, n mgl32.Vec3, alpha float32) mgl32.Vec3 {
	a2 := alpha * alpha
	phi := 2 * math32.Pi * xi[0]
	cosTheta := math32.Sqrt((1 - xi[1]) / (1 + (a2-1)*xi[1]))
	sinTheta := math32.Sqrt(math32.Max(0, 1-cosTheta*cosTheta))

	local := mgl32.Vec3{
		math32.Cos(phi) * sinTheta,
		math32.Sin(phi) * sinTheta,
		cosTheta,
	}

	tangent, bitangent := TangentBasis(n)
	h := tangent.Mul(local[0]).Add(bitangent.Mul(local[1])).Add(n.Mul(local[2]))
	return h.Normalize()
}

// TangentBasis builds an orthonormal (tangent, bitangent) pair around n.
func TangentBasis(n mgl32.Vec3) (tangent, bitangent mgl32.Vec3) {
	up := mgl32.Vec3{0, 0, 1}
	if math32.Abs(n[2]) >= 0.999 {
		up = mgl32.Vec3{1, 0, 0}
	}
	tangent = up.Cross(n).Normalize()
	bitangent = n.Cross(tangent)
	return tangent, bitangent
}

// PDF of a reflected direction produced by GGX half-vector sampling.
func PDF(nDotH, hDotV, alpha float32) float32 {
	return DistributionGGX(nDotH, alpha) * nDotH / (4 * hDotV)
}
