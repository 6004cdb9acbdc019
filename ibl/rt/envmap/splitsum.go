package envmap

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/brdf"
	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

// LUT is the split-sum BRDF table. X is NdotV, Y is roughness, and every cell
// holds (scale, bias) such that the ambient specular response is
// prefiltered * (F * scale + bias).
type LUT struct {
	Size int
	Data []mgl32.Vec2
}

func (lut *LUT) At(x, y int) mgl32.Vec2 {
	return lut.Data[y*lut.Size+x]
}

// Lookup filters the table bilinearly at (nDotV, roughness), clamping to the
// outermost texel centres.
func (lut *LUT) Lookup(nDotV, roughness float32) mgl32.Vec2 {
	fx := mgl32.Clamp(nDotV*float32(lut.Size)-0.5, 0, float32(lut.Size-1))
	fy := mgl32.Clamp(roughness*float32(lut.Size)-0.5, 0, float32(lut.Size-1))

	x0, y0 := int(fx), int(fy)
	x1, y1 := min(x0+1, lut.Size-1), min(y0+1, lut.Size-1)
	tx, ty := fx-float32(x0), fy-float32(y0)

	top := lerp2(lut.At(x0, y0), lut.At(x1, y0), tx)
	bottom := lerp2(lut.At(x0, y1), lut.At(x1, y1), tx)
	return lerp2(top, bottom, ty)
}

func lerp2(a, b mgl32.Vec2, t float32) mgl32.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// GenerateLUT integrates IntegrateBRDF at every texel centre.
func GenerateLUT(size, samples int, pool *parallel.WorkerPool) *LUT {
	lut := &LUT{Size: size, Data: make([]mgl32.Vec2, size*size)}
	xi := brdf.HammersleySet(samples)

	poolOrDefault(pool).Rows(size, func(y int) {
		roughness := (float32(y) + 0.5) / float32(size)
		for x := 0; x < size; x++ {
			nDotV := (float32(x) + 0.5) / float32(size)
			lut.Data[y*size+x] = integrateBRDF(nDotV, roughness, xi)
		}
	})
	return lut
}

// IntegrateBRDF returns (scale, bias) for one (NdotV, roughness) pair using
// the given number of Hammersley samples.
func IntegrateBRDF(nDotV, roughness float32, samples int) mgl32.Vec2 {
	return integrateBRDF(nDotV, roughness, brdf.HammersleySet(samples))
}

func integrateBRDF(nDotV, roughness float32, xi []mgl32.Vec2) mgl32.Vec2 {
	nDotV = math32.Max(nDotV, 1e-4)
	v := mgl32.Vec3{math32.Sqrt(1 - nDotV*nDotV), 0, nDotV}
	n := mgl32.Vec3{0, 0, 1}
	alpha := brdf.Alpha(roughness)

	var scale, bias float32
	for _, x := range xi {
		h := brdf.ImportanceSampleGGX(x, n, alpha)
		l := h.Mul(2 * v.Dot(h)).Sub(v)

		nDotL := core.Clamp01(l[2])
		nDotH := core.Clamp01(h[2])
		vDotH := core.Clamp01(v.Dot(h))
		if nDotL <= 0 || nDotH <= 0 {
			continue
		}

		g := geometrySmithIBL(nDotV, nDotL, alpha)
		gVis := g * vDotH / (nDotH * nDotV)
		fc := math32.Pow(1-vDotH, 5)

		scale += (1 - fc) * gVis
		bias += fc * gVis
	}

	inv := 1 / float32(len(xi))
	return mgl32.Vec2{scale * inv, bias * inv}
}

// geometrySmithIBL is Smith-Schlick with k = alpha/2, the remapping used for
// image based lighting.
func geometrySmithIBL(nDotV, nDotL, alpha float32) float32 {
	k := alpha / 2
	gv := nDotV / (nDotV*(1-k) + k)
	gl := nDotL / (nDotL*(1-k) + k)
	return gv * gl
}
