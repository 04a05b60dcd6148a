package engine

import (
	"context"
	"fmt"

	"itest/internal/itestcontext"
	"itest/internal/progress"
	"itest/internal/registry"
	"itest/internal/summary"
)

// Conclusion is the outcome of running the registered tests, translated
// into the Ok/Skipped/Failed vocabulary the rest of the engine uses.
type Conclusion struct {
	NumPassed  int
	NumIgnored int
	NumFailed  int
}

// TestRunner is the pluggable interface the Test phase driver delegates
// to. It is the Go analog of an external test-running library: the
// engine only ever depends on this interface, never on a concrete
// runner, so callers can supply one that shells out to `go test` or any
// other framework.
type TestRunner interface {
	Run(ctx context.Context, tests []registry.TestRecord, global *itestcontext.GlobalContext) (Conclusion, error)
}

// SequentialTestRunner runs each registered test closure in process,
// one at a time, recovering panics the same way a worker recovers a
// panicking setup.
type SequentialTestRunner struct{}

// Run executes every test in tests sequentially, binding each to its own
// Context derived from global.
func (SequentialTestRunner) Run(ctx context.Context, tests []registry.TestRecord, global *itestcontext.GlobalContext) (Conclusion, error) {
	var concl Conclusion
	for _, test := range tests {
		c := global.CreateComponentContext(test.Name)
		if err := runTest(test.Fn, c); err != nil {
			concl.NumFailed++
			continue
		}
		concl.NumPassed++
	}
	return concl, nil
}

func runTest(fn registry.TestFunc, c *itestcontext.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("test panicked: %v", r)
		}
	}()
	return fn(c)
}

// runTestPhase runs the registered tests through runner, unless
// setupOk is false, in which case every test is counted Skipped without
// being invoked.
func runTestPhase(ctx context.Context, tests []registry.TestRecord, runner TestRunner, global *itestcontext.GlobalContext, listener progress.Listener, setupOk bool) summary.PhaseSummary {
	listener.PhaseStarted(progress.PhaseTest, len(tests))
	builder := summary.NewPhaseSummaryBuilder(string(progress.PhaseTest))

	if !setupOk {
		for range tests {
			builder.Inc(summary.Skipped)
		}
		s := builder.Build()
		listener.PhaseFinished(s)
		return s
	}

	concl, err := runner.Run(ctx, tests, global)
	if err != nil {
		// The runner itself failed to execute (not an individual test
		// failure); count every test as failed so the phase is marked
		// non-Ok and the error is visible in the final summary.
		for range tests {
			listener.TaskFailed(progress.PhaseTest, "test-runner", 0, err.Error())
			builder.Inc(summary.Failed)
		}
		s := builder.Build()
		listener.PhaseFinished(s)
		return s
	}

	for i := 0; i < concl.NumPassed; i++ {
		builder.Inc(summary.Ok)
	}
	for i := 0; i < concl.NumIgnored; i++ {
		builder.Inc(summary.Skipped)
	}
	for i := 0; i < concl.NumFailed; i++ {
		builder.Inc(summary.Failed)
	}
	s := builder.Build()
	listener.PhaseFinished(s)
	return s
}
