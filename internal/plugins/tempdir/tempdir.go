// Package tempdir provides a SetUp plug-in that creates a private scratch
// directory for a task and tears it down by removing it.
package tempdir

import (
	"context"
	"fmt"
	"os"
	"sync"

	"itest/internal/itestcontext"
	"itest/internal/registry"
	"itest/pkg/logging"

	"github.com/google/uuid"
)

const subsystem = "TempDir"

// SetUp creates a private directory under os.TempDir, named after prefix
// with a uuid suffix to avoid collisions across concurrent runs, and
// writes its path into the parameter store as "{task}.path". The
// returned handle removes the directory on Teardown.
func SetUp(prefix string) registry.SetUpFunc {
	return func(c *itestcontext.Context) (registry.TearDownHandle, error) {
		name := fmt.Sprintf("%s-%s", prefix, uuid.NewString())
		dir, err := os.MkdirTemp("", name)
		if err != nil {
			return nil, fmt.Errorf("creating temp dir: %w", err)
		}
		c.SetParam("path", dir)
		logging.Info(subsystem, "created temp dir %s", dir)
		return &handle{path: dir}, nil
	}
}

type handle struct {
	once sync.Once
	path string
}

// Teardown removes the directory. It is safe to call more than once; only
// the first call does any work.
func (h *handle) Teardown(ctx context.Context) error {
	var err error
	h.once.Do(func() {
		logging.Debug(subsystem, "removing temp dir %s", h.path)
		err = os.RemoveAll(h.path)
	})
	return err
}
