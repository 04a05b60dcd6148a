package itestcontext

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"itest/pkg/logging"
)

// Context is a per-task view of the shared parameter store and workspace
// paths, bound to a single component (task) name.
type Context struct {
	global        *GlobalContext
	componentName string
}

// GetParam looks up an exact key (the caller composes "owner.suffix" itself)
// and returns an error rather than blocking when it is absent.
func (c *Context) GetParam(key string) (string, error) {
	return c.global.getParam(key)
}

// SetParam writes value under "{cleaned(component)}.{suffix}".
func (c *Context) SetParam(suffix, value string) {
	key := fmt.Sprintf("%s.%s", cleanName(c.componentName), suffix)
	c.global.setParam(key, value)
}

// WorkspaceBinaryPath resolves <workspace>/target/{debug|release}/<name>.
func (c *Context) WorkspaceBinaryPath(name string) string {
	return filepath.Join(c.global.WorkspaceRoot(), "target", buildProfile, name)
}

func (c *Context) logDir() string {
	return filepath.Join(c.global.WorkspaceRoot(), "target", "itest", "logs")
}

// DefaultLogFilePath returns <workspace>/target/itest/logs/<cleaned>.log,
// creating the logs directory if necessary.
func (c *Context) DefaultLogFilePath() (string, error) {
	if err := os.MkdirAll(c.logDir(), 0o755); err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}
	return filepath.Join(c.logDir(), fmt.Sprintf("%s.log", cleanName(c.componentName))), nil
}

// LogFilePath returns <workspace>/target/itest/logs/<cleaned>.<label>.log,
// creating the logs directory if necessary.
func (c *Context) LogFilePath(label string) (string, error) {
	if err := os.MkdirAll(c.logDir(), 0o755); err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}
	return filepath.Join(c.logDir(), fmt.Sprintf("%s.%s.log", cleanName(c.componentName), label)), nil
}

// MonitorAsync copies r into the task's log file labeled name (see
// LogFilePath) on a background
// goroutine, logging (but not returning) any copy error. It is a
// fire-and-forget helper for plug-ins that hand back a live output stream.
func (c *Context) MonitorAsync(name string, r io.Reader) {
	path, err := c.LogFilePath(name)
	if err != nil {
		logging.Error(contextSubsystem, err, "could not open log file for %s", name)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		logging.Error(contextSubsystem, err, "could not create log file %s", path)
		return
	}
	go func() {
		defer f.Close()
		w := bufio.NewWriter(f)
		defer w.Flush()
		if _, err := io.Copy(w, r); err != nil {
			logging.Error(contextSubsystem, err, "streaming output for %s", name)
		}
	}()
}
