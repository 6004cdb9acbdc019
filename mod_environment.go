package gekko

import (
	"fmt"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/envmap"
	"github.com/gekko3d/gekko-ibl/ibl/rt/imageio"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

// Panorama is the equirectangular source of the environment.
type Panorama struct {
	Source string
	Image  *core.HDRImage

	load func() (*core.HDRImage, error)
}

// EnvironmentModule loads a panorama file and precomputes the environment
// from it when the app enters StatePrecompute.
type EnvironmentModule struct {
	Path     string
	Settings envmap.Settings
}

func (m EnvironmentModule) Install(app *App, cmd *Commands) {
	ensureSingleEnvironment(app, "panorama:"+m.Path)
	path := m.Path
	installEnvironment(cmd, m.Settings, &Panorama{
		Source: path,
		load:   func() (*core.HDRImage, error) { return imageio.LoadPanorama(path) },
	})
}

// SkyModule precomputes the environment from the procedural sky.
type SkyModule struct {
	Sky      envmap.SkyParams
	Width    int
	Settings envmap.Settings
}

func (m SkyModule) Install(app *App, cmd *Commands) {
	ensureSingleEnvironment(app, "sky")
	sky, width := m.Sky, m.Width
	installEnvironment(cmd, m.Settings, &Panorama{
		Source: "procedural sky",
		load:   func() (*core.HDRImage, error) { return sky.Panorama(width), nil },
	})
}

func installEnvironment(cmd *Commands, settings envmap.Settings, pano *Panorama) {
	cmd.AddResources(pano, &settings, &envmap.Store{})
	cmd.UseSystem(System(loadPanorama).InStage(Load).InState(OnEnter(StatePrecompute)))
	cmd.UseSystem(System(precomputeEnvironment).InStage(Compute).InState(OnEnter(StatePrecompute)))
}

func loadPanorama(pano *Panorama, profiler *Profiler, cmd *Commands) {
	profiler.BeginScope("load")
	img, err := pano.load()
	profiler.EndScope("load")
	if err != nil {
		cmd.Fail(fmt.Errorf("environment: load %s: %w", pano.Source, err))
		return
	}
	if img.Width != 2*img.Height {
		cmd.Logger().Warnf("panorama %s is %dx%d, expected 2:1", pano.Source, img.Width, img.Height)
	}
	pano.Image = img
	profiler.SetCount("panorama_pixels", img.Width*img.Height)
	cmd.Logger().Infof("loaded %s (%dx%d)", pano.Source, img.Width, img.Height)
}

func precomputeEnvironment(pano *Panorama, settings *envmap.Settings, store *envmap.Store, pool *parallel.WorkerPool, profiler *Profiler, cmd *Commands) {
	p := envmap.NewPipeline(*settings, pool)
	p.Logger = cmd.Logger().Named("envmap")

	env, err := p.Run(pano.Image)
	if err != nil {
		cmd.Fail(fmt.Errorf("environment: precompute %s: %w", pano.Source, err))
		return
	}
	for _, t := range env.Timings {
		profiler.Record("env_"+t.Name, t.Duration)
	}
	profiler.SetCount("specular_levels", len(env.Specular.Levels))
	store.Publish(env)
}
