// Package workerpool runs SetUp tasks concurrently on a small fixed set of
// goroutines, honoring the order the SetUp phase driver feeds them in.
//
// A Pool is constructed with two channels: run (driver -> worker, sized to
// the total task count so the driver never blocks dispatching a ready
// batch) and result (worker -> driver, bounded to 100 matching the
// progress channel's capacity). Workers are managed with
// golang.org/x/sync/errgroup so Close can wait for every in-flight setup
// to finish without a bespoke sync.WaitGroup.
package workerpool

import (
	"fmt"
	"time"

	"itest/internal/dependency"
	"itest/internal/itestcontext"
	"itest/internal/progress"
	"itest/internal/registry"

	"golang.org/x/sync/errgroup"
)

// Job is one unit of dispatched setup work.
type Job struct {
	Task dependency.Task
	Name string
	Fn   registry.SetUpFunc
	Ctx  *itestcontext.Context
}

// Result is the outcome of running one Job.
type Result struct {
	Task     dependency.Task
	Handle   registry.TearDownHandle
	Err      error
	Duration time.Duration
}

// resultChannelCapacity matches the progress channel's documented bound.
const resultChannelCapacity = 100

// Pool is a bounded set of worker goroutines draining a run channel and
// publishing to a result channel. The zero value is not usable; construct
// one with New.
type Pool struct {
	workers  int
	run      chan Job
	result   chan Result
	listener progress.Listener
	g        errgroup.Group
}

// New returns a Pool with n workers and a run-channel capacity of
// queueCapacity (the total number of tasks the caller intends to
// dispatch, so Dispatch never blocks). listener receives task_running /
// task_done / task_failed events as workers process jobs.
func New(n, queueCapacity int, listener progress.Listener) *Pool {
	if n < 1 {
		n = 1
	}
	if queueCapacity < 1 {
		queueCapacity = 1
	}
	return &Pool{
		workers:  n,
		run:      make(chan Job, queueCapacity),
		result:   make(chan Result, resultChannelCapacity),
		listener: listener,
	}
}

// Start launches the worker goroutines. It must be called before Dispatch.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.g.Go(func() error {
			p.worker()
			return nil
		})
	}
}

// Dispatch enqueues a job for an idle worker. It must not be called after
// Close.
func (p *Pool) Dispatch(job Job) {
	p.run <- job
}

// Results returns the channel workers publish outcomes on.
func (p *Pool) Results() <-chan Result {
	return p.result
}

// Close closes the run channel and waits for every worker to drain and
// return, then closes the result channel. A caller that stopped reading
// Results before every dispatched job finished must still be able to
// call Close without the still-running
// workers blocking forever trying to publish their outcome: Close itself
// keeps draining Results concurrently with waiting on the workers, so a
// full result channel never stalls a worker's send.
func (p *Pool) Close() {
	close(p.run)
	done := make(chan struct{})
	go func() {
		_ = p.g.Wait()
		close(p.result)
		close(done)
	}()
	for {
		select {
		case <-p.result:
		case <-done:
			return
		}
	}
}

func (p *Pool) worker() {
	for job := range p.run {
		p.listener.TaskRunning(progress.PhaseSetUp, job.Name)
		start := time.Now()
		handle, err := runSetUp(job.Fn, job.Ctx)
		dur := time.Since(start)
		if err != nil {
			p.listener.TaskFailed(progress.PhaseSetUp, job.Name, dur, err.Error())
		} else {
			p.listener.TaskDone(progress.PhaseSetUp, job.Name, dur)
		}
		p.result <- Result{Task: job.Task, Handle: handle, Err: err, Duration: dur}
	}
}

// runSetUp invokes fn, converting a panic into an error so a single bad
// setup never poisons the worker that ran it.
func runSetUp(fn registry.SetUpFunc, c *itestcontext.Context) (handle registry.TearDownHandle, err error) {
	defer func() {
		if r := recover(); r != nil {
			handle = nil
			err = fmt.Errorf("setup panicked: %v", r)
		}
	}()
	return fn(c)
}
