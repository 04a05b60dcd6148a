// Package registry collects setup and test declarations before a run.
//
// Go has no compile-time annotation mechanism to mirror a source language's
// macro-based registration, so declarations are gathered through a builder
// API: Registry.SetUp and Registry.Test, each call site captured with
// runtime.Caller as a source location. Callers either chain calls on a
// Registry they own or rely on Default, a process-wide registry populated by
// package init functions for an annotation-like calling style. Both paths
// are semantically identical; the engine only ever sees a *Registry.
package registry
