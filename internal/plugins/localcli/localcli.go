// Package localcli provides a SetUp plug-in that runs a short-lived
// workspace binary to completion, such as a migration or seed command.
// A nonzero exit is a setup failure; since the process is already gone
// by the time SetUp returns, it never produces a TearDownHandle.
package localcli

import (
	"fmt"
	"os"
	"os/exec"

	"itest/internal/itestcontext"
	"itest/internal/registry"
	"itest/pkg/logging"
)

const subsystem = "LocalCLI"

// Request describes one binary invocation.
type Request struct {
	// Binary is resolved via Context.WorkspaceBinaryPath.
	Binary string
	Args   []string
	Env    []string
}

// SetUp resolves req.Binary under the workspace's target directory, runs
// it with req.Args and the current environment plus req.Env, redirecting
// stdout/stderr to the task's default log file, and waits for it to
// exit. A nonzero exit code is returned as an error.
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
		defer logFile.Close()

		cmd := exec.Command(path, req.Args...)
		cmd.Env = append(os.Environ(), req.Env...)
		cmd.Stdout = logFile
		cmd.Stderr = logFile

		logging.Info(subsystem, "running %s %v", path, req.Args)
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("%s exited with error: %w (see %s)", path, err, logPath)
		}
		return nil, nil
	}
}
