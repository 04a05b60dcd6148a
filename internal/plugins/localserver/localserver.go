// Package localserver provides a SetUp plug-in that spawns a long-running
// workspace binary and returns a TearDownHandle that stops it: SIGTERM
// first, falling back to SIGKILL after a grace period, grounded on the
// same graceful-shutdown idiom the teacher uses to clean up stale test
// processes.
package localserver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"itest/internal/itestcontext"
	"itest/internal/registry"
	"itest/pkg/logging"
)

const subsystem = "LocalServer"

// killGracePeriod is how long Teardown waits for SIGTERM to take effect
// before escalating to SIGKILL.
const killGracePeriod = 5 * time.Second

// Request describes one long-running binary invocation.
type Request struct {
	Binary string
	Args   []string
	Env    []string
}

// SetUp resolves req.Binary, starts it with stdout/stderr redirected to
// the task's default log file, and returns a handle whose Teardown stops
// it. The caller is responsible for waiting on any readiness signal (e.g.
// via Context.MonitorAsync) before dependent tasks are dispatched.
func SetUp(req Request) registry.SetUpFunc {
	return func(c *itestcontext.Context) (registry.TearDownHandle, error) {
		path := c.WorkspaceBinaryPath(req.Binary)
		logPath, err := c.DefaultLogFilePath()
		if err != nil {
			return nil, fmt.Errorf("resolving log file: %w", err)
		}
		logFile, err := os.Create(logPath)
		if err != nil {
			return nil, fmt.Errorf("creating log file %s: %w", logPath, err)
		}

		cmd := exec.Command(path, req.Args...)
		cmd.Env = append(os.Environ(), req.Env...)
		cmd.Stdout = logFile
		cmd.Stderr = logFile

		logging.Info(subsystem, "starting %s %v", path, req.Args)
		if err := cmd.Start(); err != nil {
			logFile.Close()
			return nil, fmt.Errorf("starting %s: %w", path, err)
		}
		return &handle{cmd: cmd, logFile: logFile}, nil
	}
}

type handle struct {
	once    sync.Once
	cmd     *exec.Cmd
	logFile *os.File
}

// Teardown sends SIGTERM to the child process and waits up to
// killGracePeriod for it to exit, escalating to SIGKILL if it doesn't. It
// is safe to call more than once; only the first call does any work.
func (h *handle) Teardown(ctx context.Context) error {
	var err error
	h.once.Do(func() {
		defer h.logFile.Close()
		err = h.stop()
	})
	return err
}

func (h *handle) stop() error {
	proc := h.cmd.Process
	if proc == nil {
		return nil
	}

	logging.Debug(subsystem, "sending SIGTERM to pid %d", proc.Pid)
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return h.cmd.Wait()
	}

	done := make(chan error, 1)
	go func() { done <- h.cmd.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-time.After(killGracePeriod):
		logging.Warn(subsystem, "pid %d did not exit after SIGTERM, sending SIGKILL", proc.Pid)
		if err := proc.Kill(); err != nil {
			return err
		}
		err = <-done
	}
	// The child was signalled on purpose, so its exiting (by the signal or
	// with any exit status) counts as a clean stop.
	if _, ok := err.(*exec.ExitError); ok {
		return nil
	}
	return err
}
