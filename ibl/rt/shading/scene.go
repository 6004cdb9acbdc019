package shading

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
)

// MinChartRoughness keeps the chart's smoothest row away from a delta lobe
// under point lights.
const MinChartRoughness = 0.05

type Sphere struct {
	Center   mgl32.Vec3
	Radius   float32
	Material core.Material
}

// Intersect returns the nearest hit distance along the unit ray, if any.
func (s *Sphere) Intersect(origin, dir mgl32.Vec3) (float32, bool) {
	oc := origin.Sub(s.Center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	t := -b - sq
	if t <= 1e-4 {
		t = -b + sq
	}
	if t <= 1e-4 {
		return 0, false
	}
	return t, true
}

// GeometryAt returns the surface frame and UV at point p on the sphere. The
// tangent follows increasing longitude.
func (s *Sphere) GeometryAt(p mgl32.Vec3) core.Geometry {
	n := core.SafeNormalize(p.Sub(s.Center), mgl32.Vec3{0, 1, 0})
	tangent := core.SafeNormalize(mgl32.Vec3{0, 1, 0}.Cross(n), mgl32.Vec3{1, 0, 0})
	uv := mgl32.Vec2{
		math32.Atan2(n[0], n[2])/(2*math32.Pi) + 0.5,
		math32.Acos(mgl32.Clamp(n[1], -1, 1)) / math32.Pi,
	}
	return core.Geometry{
		Position:   p,
		Normal:     n,
		Tangent:    tangent,
		Handedness: 1,
		UV:         uv,
	}
}

// Scene is a list of spheres traced by the main view.
type Scene struct {
	Spheres []Sphere
}

// Trace finds the closest sphere along a ray.
func (sc *Scene) Trace(origin, dir mgl32.Vec3) (*Sphere, float32, bool) {
	var hit *Sphere
	best := float32(math.MaxFloat32)
	for i := range sc.Spheres {
		if t, ok := sc.Spheres[i].Intersect(origin, dir); ok && t < best {
			best = t
			hit = &sc.Spheres[i]
		}
	}
	return hit, best, hit != nil
}

// MaterialChart lays out rows x cols spheres in the XY plane, metallic
// increasing along x and roughness increasing along y.
func MaterialChart(rows, cols int, spacing float32, albedo mgl32.Vec3) *Scene {
	sc := &Scene{Spheres: make([]Sphere, 0, rows*cols)}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			metallic := fraction(col, cols)
			roughness := math32.Max(fraction(row, rows), MinChartRoughness)
			center := mgl32.Vec3{
				(float32(col) - float32(cols-1)/2) * spacing,
				(float32(row) - float32(rows-1)/2) * spacing,
				0,
			}
			sc.Spheres = append(sc.Spheres, Sphere{
				Center:   center,
				Radius:   spacing * 0.4,
				Material: core.NewMaterial(albedo, metallic, roughness),
			})
		}
	}
	return sc
}

func fraction(i, n int) float32 {
	if n <= 1 {
		return 0
	}
	return float32(i) / float32(n-1)
}
