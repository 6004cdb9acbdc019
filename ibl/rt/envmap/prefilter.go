package envmap

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/brdf"
	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

const pdfEpsilon = 1e-4

// PrefilterConvolver builds the roughness-indexed specular mip chain of the
// split-sum approximation.
type PrefilterConvolver struct {
	Size        int // resolution of level 0
	Levels      int
	SampleCount int
	Pool        *parallel.WorkerPool
}

// RoughnessForLevel maps mip level m of n levels linearly onto [0, 1].
func RoughnessForLevel(level, levels int) float32 {
	if levels <= 1 {
		return 0
	}
	return float32(level) / float32(levels-1)
}

// PrefilterAlpha is the lobe width used when importance sampling the
// prefiltered levels: roughness cubed, not the roughness squared of the
// direct BRDF. The sample PDF still uses roughness squared.
func PrefilterAlpha(roughness float32) float32 {
	return roughness * roughness * roughness
}

// SourceLOD picks the source mip to read for one sample so that the sample's
// solid angle roughly matches the texel footprint.
func SourceLOD(nDotH, hDotV, roughness float32, sampleCount, sourceSize int) float32 {
	if roughness == 0 {
		return 0
	}
	pdf := brdf.PDF(nDotH, hDotV, brdf.Alpha(roughness)) + pdfEpsilon
	saTexel := core.TexelSolidAngle(sourceSize)
	saSample := 1 / (float32(sampleCount)*pdf + pdfEpsilon)
	return 0.5 * math32.Log2(saSample/saTexel)
}

// Convolve produces Levels cubemaps, level m at Size>>m texels (at least 1)
// filtered with roughness RoughnessForLevel(m, Levels).
func (c *PrefilterConvolver) Convolve(src *core.CubeChain) *core.CubeChain {
	xi := brdf.HammersleySet(c.SampleCount)
	pool := poolOrDefault(c.Pool)

	chain := &core.CubeChain{Levels: make([]*core.Cubemap, c.Levels)}
	for level := 0; level < c.Levels; level++ {
		size := max(c.Size>>level, 1)
		roughness := RoughnessForLevel(level, c.Levels)
		out := core.NewCubemap(size)

		pool.Rows(core.FaceCount*size, func(row int) {
			face := core.Face(row / size)
			y := row % size
			for x := 0; x < size; x++ {
				n := out.TexelDirection(face, x, y)
				out.Set(face, x, y, prefilter(src, n, roughness, xi))
			}
		})
		chain.Levels[level] = out
	}
	return chain
}

func prefilter(src *core.CubeChain, n mgl32.Vec3, roughness float32, xi []mgl32.Vec2) mgl32.Vec3 {
	// a mirror lobe puts every sample on n
	if roughness == 0 {
		return src.SampleLevel(n, 0)
	}

	alpha := PrefilterAlpha(roughness)
	sourceSize := src.Base().Size
	v := n

	var sum mgl32.Vec3
	var weight float32
	for _, x := range xi {
		h := brdf.ImportanceSampleGGX(x, n, alpha)
		vDotH := v.Dot(h)
		l := h.Mul(2 * vDotH).Sub(v)

		nDotL := n.Dot(l)
		if nDotL <= 0 {
			continue
		}
		nDotH := core.Clamp01(n.Dot(h))
		hDotV := core.Clamp01(vDotH)

		lod := SourceLOD(nDotH, hDotV, roughness, len(xi), sourceSize)
		sum = sum.Add(src.SampleLevel(l, lod).Mul(nDotL))
		weight += nDotL
	}

	if weight <= 0 {
		return src.SampleLevel(n, 0)
	}
	return sum.Mul(1 / weight)
}
