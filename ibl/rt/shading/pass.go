// Package shading combines direct point lighting with the precomputed
// environment into HDR radiance, and renders the views built on it.
package shading

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/brdf"
	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/envmap"
)

// NdotVEpsilon keeps the ambient Fresnel and LUT lookups off exact grazing.
const NdotVEpsilon = 1e-4

// Pass shades surface points. Env may be nil, in which case only direct and
// emissive light contribute.
type Pass struct {
	Env    *envmap.Environment
	Lights []core.PointLight
}

// Shade returns the linear HDR radiance leaving sp towards the viewer:
// ambient * AO + direct + emissive * emissiveFactor.
func (p *Pass) Shade(sp core.SurfacePoint) mgl32.Vec3 {
	n, _, _ := sp.Frame()
	v := core.SafeNormalize(sp.View, n)

	direct := brdf.DirectLighting(sp, n, v, p.Lights)
	ambient := p.Ambient(sp, n, v)
	emissive := sp.Emissive.Mul(sp.EmissiveFactor)

	return ambient.Mul(sp.AO).Add(direct).Add(emissive)
}

// Ambient evaluates the split-sum image based term for unit n and v.
func (p *Pass) Ambient(sp core.SurfacePoint, n, v mgl32.Vec3) mgl32.Vec3 {
	env := p.Env
	if env == nil {
		return mgl32.Vec3{}
	}

	nDotV := math32.Max(math32.Abs(n.Dot(v)), NdotVEpsilon)
	f0 := brdf.BaseReflectance(sp.Albedo, sp.Metallic)
	fAmb := brdf.FresnelSchlick(f0, nDotV)
	kd := core.Splat3(1).Sub(fAmb).Mul(1 - sp.Metallic)

	diffuse := core.Mul3(core.Mul3(env.IrradianceAt(n), sp.Albedo), kd)

	r := core.Reflect(v.Mul(-1), n)
	lod := sp.Roughness * float32(env.MaxSpecularLevel())
	prefiltered := env.PrefilteredRadiance(r, lod)
	lut := env.BRDF(nDotV, sp.Roughness)
	specular := core.Mul3(prefiltered, fAmb.Mul(lut[0]).Add(core.Splat3(lut[1])))

	return diffuse.Add(specular)
}
