package gekko

import (
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
	"github.com/gekko3d/gekko-ibl/ibl/rt/tonemap"
)

// TonemapModule maps the HDR frame for display when the app enters
// StatePresent.
type TonemapModule struct {
	Params tonemap.Params
}

func (m TonemapModule) Install(app *App, cmd *Commands) {
	params := m.Params
	cmd.AddResources(&params)
	cmd.UseSystem(System(tonemapFrame).InStage(Present).InState(OnEnter(StatePresent)))
}

func tonemapFrame(frame *Frame, params *tonemap.Params, pool *parallel.WorkerPool, profiler *Profiler, cmd *Commands) {
	if frame.HDR == nil {
		return
	}
	profiler.BeginScope("tonemap")
	frame.Display = tonemap.Apply(frame.HDR, *params, pool)
	profiler.EndScope("tonemap")
	cmd.Logger().Debugf("tonemap %s, exposure %.2f, split %.2f", params.Curve, params.Exposure, params.ComparisonFactor)
}
