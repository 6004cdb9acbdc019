package core

import "github.com/go-gl/mathgl/mgl32"

// Texture is a linear RGB image sampled with repeating UVs.
type Texture struct {
	Image *HDRImage
}

func (t *Texture) Sample(uv mgl32.Vec2) mgl32.Vec3 {
	u := uv[0] - float32(floorInt(uv[0]))
	v := uv[1] - float32(floorInt(uv[1]))
	return sampleBilinear(t.Image.Pix, t.Image.Width, t.Image.Height, u, v, true)
}

func floorInt(f float32) int {
	i := int(f)
	if f < 0 && float32(i) != f {
		i--
	}
	return i
}

// Material follows the glTF metallic-roughness model: each factor scales the
// matching texture sample when the texture is present.
type Material struct {
	Albedo         mgl32.Vec3
	Metallic       float32
	Roughness      float32
	Emissive       mgl32.Vec3
	EmissiveFactor float32

	AlbedoMap            *Texture
	NormalMap            *Texture // tangent space, packed 0..1
	MetallicRoughnessMap *Texture // G = roughness, B = metallic
	OcclusionMap         *Texture // R = ambient occlusion
	EmissiveMap          *Texture
}

func NewMaterial(albedo mgl32.Vec3, metallic, roughness float32) Material {
	return Material{
		Albedo:         albedo,
		Metallic:       metallic,
		Roughness:      roughness,
		EmissiveFactor: 1.0,
	}
}

// Geometry is the interpolated vertex data at a shaded point.
type Geometry struct {
	Position   mgl32.Vec3
	Normal     mgl32.Vec3
	Tangent    mgl32.Vec3
	Handedness float32
	UV         mgl32.Vec2
}

// Surface samples the material at g and builds the surface point seen from eye.
func (m Material) Surface(g Geometry, eye mgl32.Vec3) SurfacePoint {
	sp := SurfacePoint{
		Position:       g.Position,
		Normal:         g.Normal,
		Tangent:        g.Tangent,
		Handedness:     g.Handedness,
		View:           SafeNormalize(eye.Sub(g.Position), g.Normal),
		Albedo:         m.Albedo,
		Metallic:       m.Metallic,
		Roughness:      m.Roughness,
		AO:             1,
		Emissive:       m.Emissive,
		EmissiveFactor: m.EmissiveFactor,
	}

	if m.AlbedoMap != nil {
		sp.Albedo = Mul3(sp.Albedo, m.AlbedoMap.Sample(g.UV))
	}
	if m.MetallicRoughnessMap != nil {
		mr := m.MetallicRoughnessMap.Sample(g.UV)
		sp.Roughness *= mr[1]
		sp.Metallic *= mr[2]
	}
	if m.OcclusionMap != nil {
		sp.AO = m.OcclusionMap.Sample(g.UV)[0]
	}
	if m.EmissiveMap != nil {
		sp.Emissive = Mul3(sp.Emissive, m.EmissiveMap.Sample(g.UV))
	}
	if m.NormalMap != nil {
		n, t, b := sp.Frame()
		ts := m.NormalMap.Sample(g.UV).Mul(2).Sub(Splat3(1))
		mapped := t.Mul(ts[0]).Add(b.Mul(ts[1])).Add(n.Mul(ts[2]))
		sp.Normal = SafeNormalize(mapped, n)
		sp.Tangent = t
	}

	sp.Albedo = mgl32.Vec3{Clamp01(sp.Albedo[0]), Clamp01(sp.Albedo[1]), Clamp01(sp.Albedo[2])}
	sp.Metallic = Clamp01(sp.Metallic)
	sp.Roughness = Clamp01(sp.Roughness)
	sp.AO = Clamp01(sp.AO)
	return sp
}
