package gekko

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/envmap"
	"github.com/gekko3d/gekko-ibl/ibl/rt/imageio"
	"github.com/gekko3d/gekko-ibl/ibl/rt/shading"
)

// NewIBLApp validates cfg and assembles the full precompute, shade and
// present app. A nil logger installs a DefaultLogger honouring cfg.Debug.
func NewIBLApp(cfg Config, logger *DefaultLogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	view, _ := shading.ParseViewMode(cfg.Render.View)
	params, _ := cfg.ToneParams()
	format, _ := imageio.ParseFormat(cfg.Output.Format)

	settings := cfg.EnvironmentSettings()
	var environment Module = SkyModule{Sky: envmap.DefaultSky(), Width: cfg.Environment.SkyWidth, Settings: settings}
	if cfg.Environment.Panorama != "" {
		environment = EnvironmentModule{Path: cfg.Environment.Panorama, Settings: settings}
	}

	r := cfg.Render
	scene := MaterialChartScene(r.Rows, r.Cols, r.Spacing, mgl32.Vec3(r.Albedo), PointLights(cfg.Lights), cfg.OrbitCamera())

	app := NewAppBuilder().
		UseStates(StatePrecompute, StateDone).
		UseModule(
			LoggingModule{Prefix: "ibl", Debug: cfg.Debug, Logger: logger},
			ProfilerModule{},
			WorkerModule{Workers: cfg.Workers},
			SequenceModule{},
			environment,
			ShadingModule{
				Render: RenderSettings{Width: r.Width, Height: r.Height, View: view, Roughness: r.Roughness},
				Scene:  scene,
			},
			TonemapModule{Params: params},
			OutputModule{Settings: OutputSettings{
				Path:          cfg.Output.Path,
				Format:        format,
				Sheets:        cfg.Output.Sheets,
				SheetFaceSize: cfg.Output.SheetFaceSize,
				RawHDR:        cfg.Output.RawHDR,
			}},
		).
		Build()
	return app, nil
}
