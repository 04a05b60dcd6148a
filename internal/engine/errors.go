package engine

import "fmt"

// panicError renders a recovered panic value the way the worker pool
// renders a panicking setup, so teardown panics are reported consistently.
func panicError(r interface{}) error {
	return fmt.Errorf("teardown panicked: %v", r)
}
