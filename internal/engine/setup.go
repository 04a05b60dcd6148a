package engine

import (
	"itest/internal/dependency"
	"itest/internal/itestcontext"
	"itest/internal/progress"
	"itest/internal/registry"
	"itest/internal/summary"
	"itest/internal/workerpool"
)

// runSetUp feeds table's dry-run-validated DAG into a worker pool of size
// workers, dispatching each ready task as a job bound to a Context
// derived from global. It returns the TearDowns list (in acquisition
// order) and the phase's frozen summary.
func runSetUp(table *dependency.DepTable[dependency.SourceLocation], fns []registry.SetUpFunc, global *itestcontext.GlobalContext, workers int, listener progress.Listener) ([]TearDownEntry, summary.PhaseSummary) {
	list := table.MakeTaskList()
	listener.PhaseStarted(progress.PhaseSetUp, table.Len())

	pool := workerpool.New(workers, table.Len(), listener)
	pool.Start()

	inFlight := 0
	dispatch := func(tasks []dependency.Task) {
		for _, t := range tasks {
			name := table.Name(int(t))
			pool.Dispatch(workerpool.Job{
				Task: t,
				Name: name,
				Fn:   fns[t],
				Ctx:  global.CreateComponentContext(name),
			})
			inFlight++
		}
	}

	builder := summary.NewPhaseSummaryBuilder(string(progress.PhaseSetUp))
	var tearDowns []TearDownEntry
	ran := 0

	dispatch(list.PopReady())
	for inFlight > 0 {
		res := <-pool.Results()
		inFlight--
		ran++
		name := table.Name(int(res.Task))
		// A job still running when another task failed was already marked
		// Skipped by SetFailed; its outcome is still counted and its handle kept.
		late := list.Status(res.Task) != dependency.Waiting
		if res.Err != nil {
			if !late {
				list.SetFailed(res.Task)
			}
			builder.Inc(summary.Failed)
		} else {
			if !late {
				list.SetSuccess(res.Task)
			}
			builder.Inc(summary.Ok)
			if res.Handle != nil {
				tearDowns = append(tearDowns, TearDownEntry{Task: res.Task, Name: name, Handle: res.Handle})
			}
		}
		dispatch(list.PopReady())
	}
	pool.Close()

	for i := ran; i < table.Len(); i++ {
		builder.Inc(summary.Skipped)
	}

	s := builder.Build()
	listener.PhaseFinished(s)
	return tearDowns, s
}
