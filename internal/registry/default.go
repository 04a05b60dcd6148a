package registry

import "sync"

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide Registry that RegisterSetUp and
// RegisterTest populate, for callers that prefer declaring components from
// package init functions rather than threading a *Registry through.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New() })
	return defaultReg
}

// RegisterSetUp adds a setup declaration to the default registry. It is
// typically called from a package init function.
func RegisterSetUp(name string, deps []string, fn SetUpFunc) {
	r := Default()
	r.mu.Lock()
	r.setUps = append(r.setUps, SetUpRecord{Name: name, Deps: deps, Fn: fn, At: caller(2)})
	r.mu.Unlock()
}

// RegisterTest adds a test declaration to the default registry.
func RegisterTest(name string, fn TestFunc) {
	r := Default()
	r.mu.Lock()
	r.tests = append(r.tests, TestRecord{Name: name, Fn: fn, At: caller(2)})
	r.mu.Unlock()
}
