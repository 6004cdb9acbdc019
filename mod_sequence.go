package gekko

import "github.com/gekko3d/gekko-ibl/ibl/rt/parallel"

// SequenceModule steps a stateful app through its states in order, one
// state per pass over the stages.
type SequenceModule struct{}

func (SequenceModule) Install(app *App, cmd *Commands) {
	cmd.UseSystem(System(advanceState).InStage(Finale).RunAlways())
}

func advanceState(cmd *Commands) {
	app := cmd.app
	if app.stateful && app.state < app.finalState && !app.stateTransitioning {
		app.Logger().Debugf("state %s done", app.state)
		cmd.ChangeState(app.state + 1)
	}
}

// WorkerModule installs the worker pool every per-texel pass shares.
type WorkerModule struct {
	Workers int // 0 uses every CPU
}

func (m WorkerModule) Install(app *App, cmd *Commands) {
	pool := parallel.NewWorkerPool(m.Workers)
	app.Logger().Debugf("worker pool with %d workers", pool.GetNumWorkers())
	cmd.AddResources(pool)
}
