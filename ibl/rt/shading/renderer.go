package shading

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/envmap"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

// ViewMode selects what the renderer writes. Only one view is produced per
// frame.
type ViewMode uint32

const (
	ViewMain ViewMode = iota
	ViewEnvironment
	ViewIrradiance
	ViewSpecular
)

var viewNames = [...]string{"main", "environment", "irradiance", "specular"}

func (m ViewMode) String() string {
	if int(m) < len(viewNames) {
		return viewNames[m]
	}
	return fmt.Sprintf("ViewMode(%d)", uint32(m))
}

func ParseViewMode(s string) (ViewMode, error) {
	for i, name := range viewNames {
		if strings.EqualFold(s, name) {
			return ViewMode(i), nil
		}
	}
	return ViewMain, fmt.Errorf("shading: unknown view %q", s)
}

// Renderer traces the scene through the camera into an HDR frame.
type Renderer struct {
	Width, Height int
	Camera        core.Camera
	Mode          ViewMode
	// Roughness picks the specular mip shown by ViewSpecular, scaled by the
	// chain's highest level.
	Roughness float32
	Pool      *parallel.WorkerPool
}

// Render produces a Width x Height linear HDR image. Every view except
// ViewMain ignores the scene and lights and shows one environment artifact
// as the background.
func (r *Renderer) Render(env *envmap.Environment, scene *Scene, lights []core.PointLight) *core.HDRImage {
	frame := core.NewHDRImage(r.Width, r.Height)
	pass := &Pass{Env: env, Lights: lights}

	pool := r.Pool
	if pool == nil {
		pool = parallel.NewWorkerPool(0)
	}
	pool.Rows(r.Height, func(y int) {
		row := frame.Row(y)
		for x := range row {
			origin, dir := r.Camera.PixelRay(x, y, r.Width, r.Height)
			row[x] = r.pixel(env, pass, scene, origin, dir)
		}
	})
	return frame
}

func (r *Renderer) pixel(env *envmap.Environment, pass *Pass, scene *Scene, origin, dir mgl32.Vec3) mgl32.Vec3 {
	if r.Mode == ViewMain && scene != nil {
		if s, t, ok := scene.Trace(origin, dir); ok {
			g := s.GeometryAt(origin.Add(dir.Mul(t)))
			return pass.Shade(s.Material.Surface(g, origin))
		}
	}
	return r.Background(env, dir)
}

// Background returns what the current view shows in direction dir.
func (r *Renderer) Background(env *envmap.Environment, dir mgl32.Vec3) mgl32.Vec3 {
	if env == nil {
		return mgl32.Vec3{}
	}
	switch r.Mode {
	case ViewIrradiance:
		return env.IrradianceAt(dir)
	case ViewSpecular:
		lod := core.Clamp01(r.Roughness) * float32(env.MaxSpecularLevel())
		return env.PrefilteredRadiance(dir, lod)
	default:
		return env.Source.SampleLevel(dir, 0)
	}
}
