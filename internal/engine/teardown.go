package engine

import (
	"context"
	"time"

	"itest/internal/dependency"
	"itest/internal/progress"
	"itest/internal/registry"
	"itest/internal/summary"
)

// TearDownEntry pairs a successfully set-up task with the handle guarding
// the resource it acquired, in the order the setup succeeded.
type TearDownEntry struct {
	Task   dependency.Task
	Name   string
	Handle registry.TearDownHandle
}

// runTearDown drains entries in strict LIFO order, invoking each
// handle's Teardown under panic isolation. Every teardown is attempted
// even if an earlier one fails; the driver never short-circuits.
func runTearDown(ctx context.Context, entries []TearDownEntry, listener progress.Listener) summary.PhaseSummary {
	listener.PhaseStarted(progress.PhaseTearDown, len(entries))
	builder := summary.NewPhaseSummaryBuilder(string(progress.PhaseTearDown))

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		listener.TaskRunning(progress.PhaseTearDown, entry.Name)
		start := time.Now()
		err := safeTeardown(ctx, entry.Handle)
		dur := time.Since(start)
		if err != nil {
			listener.TaskFailed(progress.PhaseTearDown, entry.Name, dur, err.Error())
			builder.Inc(summary.Failed)
		} else {
			listener.TaskDone(progress.PhaseTearDown, entry.Name, dur)
			builder.Inc(summary.Ok)
		}
	}

	s := builder.Build()
	listener.PhaseFinished(s)
	return s
}

// safeTeardown invokes handle.Teardown, converting a panic into an error
// so one bad teardown never stops the rest from running.
func safeTeardown(ctx context.Context, handle registry.TearDownHandle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return handle.Teardown(ctx)
}
