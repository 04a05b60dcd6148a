// Package itestcontext provides the shared parameter store and workspace
// paths that setup functions see during a run.
//
// GlobalContext is created once per run and resolves the workspace root the
// Go-native way: it asks "go env GOMOD" where the nearest module's go.mod
// lives and falls back to walking parent directories when the go tool is
// unavailable. CreateComponentContext binds a Context to a single task name,
// namespacing every parameter it writes under that name.
package itestcontext
