package registry

import (
	"runtime"
	"sync"

	"itest/internal/dependency"
)

// SetUpRecord is one registered setup declaration, ready to be fed to a
// dependency.Builder.
type SetUpRecord struct {
	Name string
	Deps []string
	Fn   SetUpFunc
	At   dependency.SourceLocation
}

// TestRecord is one registered test declaration.
type TestRecord struct {
	Name string
	Fn   TestFunc
	At   dependency.SourceLocation
}

// Registry accumulates setup and test declarations before a run. The zero
// value is not usable; construct one with New.
type Registry struct {
	mu     sync.Mutex
	setUps []SetUpRecord
	tests  []TestRecord
}

// New returns an empty Registry ready for fluent SetUp/Test calls.
func New() *Registry {
	return &Registry{}
}

// SetUp registers a setup declaration and returns the Registry for chaining.
// The call site (one frame up) is captured as the declaration's source
// location.
func (r *Registry) SetUp(name string, deps []string, fn SetUpFunc) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setUps = append(r.setUps, SetUpRecord{Name: name, Deps: deps, Fn: fn, At: caller(2)})
	return r
}

// Test registers a test declaration and returns the Registry for chaining.
func (r *Registry) Test(name string, fn TestFunc) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tests = append(r.tests, TestRecord{Name: name, Fn: fn, At: caller(2)})
	return r
}

// SetUps returns the accumulated setup declarations in registration order.
func (r *Registry) SetUps() []SetUpRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SetUpRecord, len(r.setUps))
	copy(out, r.setUps)
	return out
}

// Tests returns the accumulated test declarations in registration order.
func (r *Registry) Tests() []TestRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TestRecord, len(r.tests))
	copy(out, r.tests)
	return out
}

// caller captures the file:line of the frame skip levels above caller
// itself (skip 2 is the caller of caller's caller), for use as a
// declaration's source location.
func caller(skip int) dependency.SourceLocation {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return dependency.SourceLocation{File: "unknown", Line: 0}
	}
	return dependency.SourceLocation{File: file, Line: line}
}
