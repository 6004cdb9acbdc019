package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFrameGramSchmidt(t *testing.T) {
	sp := SurfacePoint{
		Normal:     mgl32.Vec3{0, 0, 2},
		Tangent:    mgl32.Vec3{1, 0, 0.5},
		Handedness: 1,
	}
	n, tan, b := sp.Frame()

	assert.InDelta(t, 1, n.Len(), 1e-6)
	assert.InDelta(t, 1, tan.Len(), 1e-6)
	assert.InDelta(t, 0, n.Dot(tan), 1e-6)
	assert.True(t, b.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6), "b = %v", b)

	sp.Handedness = -1
	_, _, flipped := sp.Frame()
	assert.True(t, flipped.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-6))
}

func TestFrameDegenerateTangent(t *testing.T) {
	sp := SurfacePoint{
		Normal:  mgl32.Vec3{1, 0, 0},
		Tangent: mgl32.Vec3{3, 0, 0},
	}
	n, tan, _ := sp.Frame()
	assert.InDelta(t, 1, tan.Len(), 1e-6)
	assert.InDelta(t, 0, n.Dot(tan), 1e-6)
}

func TestActiveLightsCap(t *testing.T) {
	lights := make([]PointLight, MaxLights+5)
	assert.Len(t, ActiveLights(lights), MaxLights)
	assert.Len(t, ActiveLights(lights[:3]), 3)
}

func TestMaterialSurfaceAppliesMaps(t *testing.T) {
	mr := &Texture{Image: NewUniformImage(2, 2, mgl32.Vec3{0, 0.5, 1})}
	flatNormal := &Texture{Image: NewUniformImage(2, 2, mgl32.Vec3{0.5, 0.5, 1})}
	ao := &Texture{Image: NewUniformImage(2, 2, mgl32.Vec3{0.25, 0, 0})}

	m := NewMaterial(mgl32.Vec3{0.8, 0.8, 0.8}, 0.6, 0.8)
	m.MetallicRoughnessMap = mr
	m.NormalMap = flatNormal
	m.OcclusionMap = ao

	g := Geometry{
		Position:   mgl32.Vec3{0, 0, 0},
		Normal:     mgl32.Vec3{0, 1, 0},
		Tangent:    mgl32.Vec3{1, 0, 0},
		Handedness: 1,
		UV:         mgl32.Vec2{0.3, 0.7},
	}
	sp := m.Surface(g, mgl32.Vec3{0, 5, 0})

	assert.InDelta(t, 0.4, sp.Roughness, 1e-6)
	assert.InDelta(t, 0.6, sp.Metallic, 1e-6)
	assert.InDelta(t, 0.25, sp.AO, 1e-6)
	assert.True(t, sp.Normal.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5), "normal %v", sp.Normal)
	assert.True(t, sp.View.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6))
}
