package shading

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

func TestParseViewMode(t *testing.T) {
	for _, mode := range []ViewMode{ViewMain, ViewEnvironment, ViewIrradiance, ViewSpecular} {
		got, err := ParseViewMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}
	got, err := ParseViewMode("Irradiance")
	require.NoError(t, err)
	assert.Equal(t, ViewIrradiance, got)

	_, err = ParseViewMode("wireframe")
	assert.Error(t, err)
}

func TestSphereIntersect(t *testing.T) {
	s := Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1}

	d, ok := s.Intersect(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.InDelta(t, 4.0, d, 1e-5)

	_, ok = s.Intersect(mgl32.Vec3{0, 2, 5}, mgl32.Vec3{0, 0, -1})
	assert.False(t, ok)

	_, ok = s.Intersect(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1})
	assert.False(t, ok)

	// from inside the far side is hit
	d, ok = s.Intersect(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	require.True(t, ok)
	assert.InDelta(t, 1.0, d, 1e-5)
}

func TestSphereGeometry(t *testing.T) {
	s := Sphere{Center: mgl32.Vec3{1, 0, 0}, Radius: 2}
	g := s.GeometryAt(mgl32.Vec3{1, 0, 2})

	assert.True(t, g.Normal.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-6))
	assert.InDelta(t, 0.0, g.Tangent.Dot(g.Normal), 1e-6)
	assert.InDelta(t, 0.5, g.UV[0], 1e-6)
	assert.InDelta(t, 0.5, g.UV[1], 1e-6)
}

func TestMaterialChartLayout(t *testing.T) {
	sc := MaterialChart(3, 4, 2, mgl32.Vec3{1, 0, 0})
	require.Len(t, sc.Spheres, 12)

	first := sc.Spheres[0].Material
	last := sc.Spheres[11].Material
	assert.Equal(t, float32(0), first.Metallic)
	assert.Equal(t, float32(MinChartRoughness), first.Roughness)
	assert.Equal(t, float32(1), last.Metallic)
	assert.Equal(t, float32(1), last.Roughness)

	// centred on the origin
	var sum mgl32.Vec3
	for _, s := range sc.Spheres {
		sum = sum.Add(s.Center)
	}
	assert.True(t, sum.ApproxEqualThreshold(mgl32.Vec3{}, 1e-5))
}

func testCamera() core.Camera {
	cam := core.NewOrbitCamera()
	cam.Distance = 5
	return cam.Camera(1)
}

func TestRenderBackgroundViews(t *testing.T) {
	env := uniformEnv(mgl32.Vec3{3, 3, 3}, mgl32.Vec3{1, 1, 1}, mgl32.Vec2{1, 0})
	tests := []struct {
		mode ViewMode
		want float32
	}{
		{ViewEnvironment, 1},
		{ViewIrradiance, 3},
		{ViewSpecular, 1},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			r := Renderer{Width: 4, Height: 4, Camera: testCamera(), Mode: tt.mode, Roughness: 0.5, Pool: parallel.NewWorkerPool(2)}
			frame := r.Render(env, MaterialChart(1, 1, 2, mgl32.Vec3{1, 1, 1}), nil)
			for _, px := range frame.Pix {
				assert.InDelta(t, tt.want, px[0], 1e-5)
			}
		})
	}
}

func TestRenderMainHitsChart(t *testing.T) {
	env := uniformEnv(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 0, 0}, mgl32.Vec2{1, 0})
	sc := &Scene{Spheres: []Sphere{{Radius: 1, Material: core.NewMaterial(mgl32.Vec3{0.5, 0.5, 0.5}, 0, 0.5)}}}

	r := Renderer{Width: 9, Height: 9, Camera: testCamera(), Mode: ViewMain}
	frame := r.Render(env, sc, nil)

	centre := frame.At(4, 4)
	corner := frame.At(0, 0)
	assert.Greater(t, centre[0], float32(0.1))
	assert.Equal(t, float32(0), corner[0])
}

func TestRenderWithoutEnvironment(t *testing.T) {
	r := Renderer{Width: 2, Height: 2, Camera: testCamera(), Mode: ViewEnvironment}
	frame := r.Render(nil, nil, nil)
	for _, px := range frame.Pix {
		assert.Equal(t, mgl32.Vec3{}, px)
	}
}
