// Package brdf evaluates the Cook-Torrance microfacet model used for direct
// point lights: GGX normal distribution, Smith-Schlick visibility and the
// exp2 form of Schlick's Fresnel approximation.
package brdf

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
)

// DielectricF0 is the normal-incidence reflectance of non-metals.
const DielectricF0 = 0.04

// SpecularEpsilon floors the 4·NdotV·NdotL denominator at grazing angles.
const SpecularEpsilon = 1e-3

// BaseReflectance interpolates F0 from the dielectric baseline to the albedo
// as the surface becomes metallic.
func BaseReflectance(albedo mgl32.Vec3, metallic float32) mgl32.Vec3 {
	return core.Lerp3(core.Splat3(DielectricF0), albedo, metallic)
}

// Alpha maps perceptual roughness to the GGX alpha.
func Alpha(roughness float32) float32 {
	return roughness * roughness
}

// DistributionGGX is the Trowbridge-Reitz normal distribution.
func DistributionGGX(nDotH, alpha float32) float32 {
	a2 := alpha * alpha
	c2 := nDotH * nDotH
	// c2*(a2-1)+1 loses a2 to cancellation near the peak
	d := c2*a2 + (1 - c2)
	if d == 0 {
		// alpha 0 with H on N: a delta lobe, no finite value
		return 0
	}
	return a2 / (math32.Pi * d * d)
}

// VisibilitySmithGGX is the joint Smith-Schlick visibility term clamped to
// [0, 1].
func VisibilitySmithGGX(nDotL, nDotV, alpha float32) float32 {
	l := nDotL*(1-alpha) + alpha
	v := nDotV*(1-alpha) + alpha
	if l*v <= 0 {
		return 1
	}
	return core.Clamp01(1 / (l * v))
}

// FresnelSchlick uses the spherical-gaussian fit of (1-cos)^5.
func FresnelSchlick(f0 mgl32.Vec3, cosTheta float32) mgl32.Vec3 {
	w := math32.Exp2((-5.55473*cosTheta - 6.98316) * cosTheta)
	return f0.Add(core.Splat3(1).Sub(f0).Mul(w))
}

// Terms is the split of one light's BRDF response, before the NdotL and
// radiance factors are applied.
type Terms struct {
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
	NdotL    float32
}

// EvaluateTerms evaluates the diffuse and specular lobes for unit vectors
// n, v, l. Inputs outside [0,1] are the caller's problem.
func EvaluateTerms(n, v, l, albedo mgl32.Vec3, metallic, roughness float32) Terms {
	nDotL := n.Dot(l)
	if nDotL <= 0 {
		return Terms{}
	}
	nDotV := core.Clamp01(n.Dot(v))

	h := core.SafeNormalize(v.Add(l), n)
	nDotH := core.Clamp01(n.Dot(h))
	hDotV := core.Clamp01(h.Dot(v))

	alpha := Alpha(roughness)
	f0 := BaseReflectance(albedo, metallic)

	d := DistributionGGX(nDotH, alpha)
	vis := VisibilitySmithGGX(nDotL, nDotV, alpha)
	f := FresnelSchlick(f0, hDotV)

	denom := math32.Max(4*nDotV*nDotL, SpecularEpsilon)
	specular := f.Mul(d * vis / denom)

	kd := core.Splat3(1).Sub(f).Mul(1 - metallic)
	diffuse := core.Mul3(albedo.Mul(1/math32.Pi), kd)

	return Terms{
		Diffuse:  diffuse,
		Specular: specular,
		NdotL:    nDotL,
	}
}

// EvaluatePointLight returns the radiance reflected towards the viewer from
// one point light, with inverse-square falloff. It is exactly zero for lights
// behind the surface.
func EvaluatePointLight(sp core.SurfacePoint, n, v mgl32.Vec3, light core.PointLight) mgl32.Vec3 {
	toLight := light.Position.Sub(sp.Position)
	dist2 := toLight.Dot(toLight)
	if dist2 <= 0 {
		return mgl32.Vec3{}
	}
	l := toLight.Mul(1 / math32.Sqrt(dist2))

	terms := EvaluateTerms(n, v, l, sp.Albedo, sp.Metallic, sp.Roughness)
	if terms.NdotL <= 0 {
		return mgl32.Vec3{}
	}

	radiance := light.Color.Mul(light.Intensity / dist2)
	return core.Mul3(terms.Diffuse.Add(terms.Specular), radiance).Mul(terms.NdotL)
}

// DirectLighting sums EvaluatePointLight over the first core.MaxLights lights.
func DirectLighting(sp core.SurfacePoint, n, v mgl32.Vec3, lights []core.PointLight) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, light := range core.ActiveLights(lights) {
		sum = sum.Add(EvaluatePointLight(sp, n, v, light))
	}
	return sum
}
