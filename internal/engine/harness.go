// Package engine wires discovery, the worker pool, and the three phase
// drivers (SetUp, Test, TearDown) into a single Harness.Run call, the
// engine's top-level control flow.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"itest/internal/config"
	"itest/internal/itestcontext"
	"itest/internal/progress"
	"itest/internal/registry"
	"itest/internal/summary"
)

// Harness orchestrates one run: discovery, SetUp, Test, TearDown, and
// final reporting. The zero value is not usable; construct one with New.
type Harness struct {
	reg     *registry.Registry
	global  *itestcontext.GlobalContext
	workers int
	runner  TestRunner
	out     io.Writer
}

// Option configures a Harness returned by New.
type Option func(*Harness)

// WithWorkers overrides the SetUp phase's worker pool size.
func WithWorkers(n int) Option {
	return func(h *Harness) { h.workers = n }
}

// WithTestRunner overrides the Test phase's runner. The default is
// SequentialTestRunner.
func WithTestRunner(r TestRunner) Option {
	return func(h *Harness) { h.runner = r }
}

// WithOutput overrides where the progress monitor writes. The default is
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Harness) { h.out = w }
}

// New returns a Harness over reg's accumulated declarations, using
// global as the shared parameter store and workspace root.
func New(reg *registry.Registry, global *itestcontext.GlobalContext, opts ...Option) *Harness {
	h := &Harness{
		reg:     reg,
		global:  global,
		workers: config.DefaultWorkers,
		runner:  SequentialTestRunner{},
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run discovers declarations, runs SetUp, then Test (unless SetUp
// failed), then TearDown, and returns the aggregated OverallSummary. A
// non-nil error means discovery itself failed (name conflicts,
// undeclared dependencies, or a cycle) — no task ever ran.
func (h *Harness) Run(ctx context.Context) (summary.OverallSummary, error) {
	table, fns, order, err := discover(h.reg)
	if err != nil {
		return summary.OverallSummary{}, err
	}

	maxNameLen := 0
	for _, t := range order {
		if n := len(table.Name(int(t))); n > maxNameLen {
			maxNameLen = n
		}
	}
	for _, test := range h.reg.Tests() {
		if n := len(test.Name); n > maxNameLen {
			maxNameLen = n
		}
	}

	monitor := progress.NewMonitor(h.out, maxNameLen)
	monitor.Start()
	listener := monitor.Listener()

	overallBuilder := summary.NewOverallSummaryBuilder()

	tearDowns, setupSummary := runSetUp(table, fns, h.global, h.workers, listener)
	overallBuilder.Add(setupSummary)

	testSummary := runTestPhase(ctx, h.reg.Tests(), h.runner, h.global, listener, setupSummary.Result == summary.ResultOk)
	overallBuilder.Add(testSummary)

	tearDownSummary := runTearDown(ctx, tearDowns, listener)
	overallBuilder.Add(tearDownSummary)

	overall := overallBuilder.Build()
	listener.FinalStatus(overall)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := monitor.Shutdown(shutdownCtx); err != nil {
		return overall, fmt.Errorf("shutting down progress monitor: %w", err)
	}
	return overall, nil
}

// ExitCode maps an OverallSummary to the process exit code the spec
// requires: 0 iff the overall result is Ok.
func ExitCode(overall summary.OverallSummary) int {
	if overall.Result == summary.ResultOk {
		return 0
	}
	return 1
}

// RunMain is the harness library's entry point for a TestMain-driven
// binary: construct a GlobalContext, run reg's declarations end to end,
// print the final summary, and return a process exit code.
func RunMain(reg *registry.Registry, opts ...Option) int {
	global, err := itestcontext.NewGlobalContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "itest: resolving workspace root: %v\n", err)
		return 1
	}

	h := New(reg, global, opts...)
	overall, err := h.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "itest: %v\n", err)
		return 1
	}
	return ExitCode(overall)
}
