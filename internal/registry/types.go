package registry

import (
	"context"

	"itest/internal/itestcontext"
)

// TearDownHandle guards a resource acquired by a successful setup. Teardown
// is invoked at most once; implementations guard re-entry with sync.Once so
// a container handle, a process handle, and a temp-dir handle can all share
// this one interface without an inheritance hierarchy.
type TearDownHandle interface {
	Teardown(ctx context.Context) error
}

// SetUpFunc brings up one task's resource. A nil handle with a nil error
// means the task needed no teardown.
type SetUpFunc func(ctx *itestcontext.Context) (TearDownHandle, error)

// TestFunc is one registered test closure, run by a TestRunner during the
// Test phase.
type TestFunc func(ctx *itestcontext.Context) error
