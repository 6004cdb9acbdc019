package envmap

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

// IrradianceConvolver integrates the cosine-weighted hemisphere around every
// output direction with a regular (theta, phi) grid.
type IrradianceConvolver struct {
	Size         int
	ThetaSamples int // azimuth steps over [0, 2pi)
	PhiSamples   int // polar steps over [0, pi/2)
	Pool         *parallel.WorkerPool
}

type hemisphereSample struct {
	local  mgl32.Vec3 // z along the normal
	weight float32    // cos(phi) sin(phi)
}

func (c *IrradianceConvolver) samples() []hemisphereSample {
	thetaSamples := c.ThetaSamples
	phiSamples := c.PhiSamples
	if phiSamples <= 0 {
		phiSamples = max(thetaSamples/4, 1)
	}

	dTheta := 2 * math32.Pi / float32(thetaSamples)
	dPhi := 0.5 * math32.Pi / float32(phiSamples)

	out := make([]hemisphereSample, 0, thetaSamples*phiSamples)
	for i := 0; i < thetaSamples; i++ {
		theta := float32(i) * dTheta
		sinT, cosT := math32.Sin(theta), math32.Cos(theta)
		for j := 0; j < phiSamples; j++ {
			phi := float32(j) * dPhi
			sinP, cosP := math32.Sin(phi), math32.Cos(phi)
			out = append(out, hemisphereSample{
				local:  mgl32.Vec3{sinP * cosT, sinP * sinT, cosP},
				weight: cosP * sinP,
			})
		}
	}
	return out
}

// Convolve returns the diffuse irradiance cubemap of src.
func (c *IrradianceConvolver) Convolve(src *core.Cubemap) *core.Cubemap {
	samples := c.samples()
	scale := math32.Pi / float32(len(samples))

	out := core.NewCubemap(c.Size)
	poolOrDefault(c.Pool).Rows(core.FaceCount*c.Size, func(row int) {
		face := core.Face(row / c.Size)
		y := row % c.Size
		for x := 0; x < c.Size; x++ {
			n := out.TexelDirection(face, x, y)
			out.Set(face, x, y, irradiance(src, n, samples).Mul(scale))
		}
	})
	return out
}

func irradiance(src *core.Cubemap, n mgl32.Vec3, samples []hemisphereSample) mgl32.Vec3 {
	right, up := hemisphereFrame(n)

	var sum mgl32.Vec3
	for _, s := range samples {
		if s.weight == 0 {
			continue
		}
		dir := right.Mul(s.local[0]).Add(up.Mul(s.local[1])).Add(n.Mul(s.local[2]))
		sum = sum.Add(src.Sample(dir).Mul(s.weight))
	}
	return sum
}

// hemisphereFrame builds right = cross(worldUp, n), up = cross(n, right) with
// worldUp = +Y, switching to +Z when n is parallel to +Y.
func hemisphereFrame(n mgl32.Vec3) (right, up mgl32.Vec3) {
	worldUp := mgl32.Vec3{0, 1, 0}
	right = worldUp.Cross(n)
	if right.Len() < 1e-4 {
		right = mgl32.Vec3{0, 0, 1}.Cross(n)
	}
	right = right.Normalize()
	up = n.Cross(right)
	return right, up
}
