package gekko

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/envmap"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
	"github.com/gekko3d/gekko-ibl/ibl/rt/shading"
)

// Frame carries the image between the shading, tone mapping and output
// stages.
type Frame struct {
	View    shading.ViewMode
	HDR     *core.HDRImage // linear radiance
	Display *core.HDRImage // tone mapped, still linear
}

// SceneState is what the main view draws.
type SceneState struct {
	Scene  *shading.Scene
	Lights []core.PointLight
	Camera *core.OrbitCamera
}

type RenderSettings struct {
	Width, Height int
	View          shading.ViewMode
	Roughness     float32
}

// ShadingModule renders the selected view when the app enters StateShade.
type ShadingModule struct {
	Render RenderSettings
	Scene  SceneState
}

// MaterialChartScene builds the default scene: a chart of spheres, metallic
// along x and roughness along y.
func MaterialChartScene(rows, cols int, spacing float32, albedo mgl32.Vec3, lights []core.PointLight, camera *core.OrbitCamera) SceneState {
	return SceneState{
		Scene:  shading.MaterialChart(rows, cols, spacing, albedo),
		Lights: lights,
		Camera: camera,
	}
}

func (m ShadingModule) Install(app *App, cmd *Commands) {
	scene := m.Scene
	if scene.Camera == nil {
		scene.Camera = core.NewOrbitCamera()
	}
	if n := len(scene.Lights); n > core.MaxLights {
		app.Logger().Warnf("%d lights configured, only the first %d are shaded", n, core.MaxLights)
	}
	render := m.Render
	cmd.AddResources(&scene, &render, &Frame{})
	cmd.UseSystem(System(renderFrame).InStage(Render).InState(OnEnter(StateShade)))
}

var errNoEnvironment = errors.New("shading: no environment published")

func renderFrame(store *envmap.Store, scene *SceneState, settings *RenderSettings, frame *Frame, pool *parallel.WorkerPool, profiler *Profiler, cmd *Commands) {
	env := store.Current()
	if env == nil {
		cmd.Fail(errNoEnvironment)
		return
	}

	aspect := float32(settings.Width) / float32(settings.Height)
	r := shading.Renderer{
		Width:     settings.Width,
		Height:    settings.Height,
		Camera:    scene.Camera.Camera(aspect),
		Mode:      settings.View,
		Roughness: settings.Roughness,
		Pool:      pool,
	}

	profiler.BeginScope("shade")
	frame.HDR = r.Render(env, scene.Scene, scene.Lights)
	profiler.EndScope("shade")
	frame.View = settings.View

	profiler.SetCount("pixels", settings.Width*settings.Height)
	profiler.SetCount("lights", len(core.ActiveLights(scene.Lights)))
	cmd.Logger().Infof("rendered %s view %dx%d with environment %s", settings.View, settings.Width, settings.Height, env.ID)
}
