// Package logging provides the structured, subsystem-tagged logging used
// throughout the harness: every component logs through Debug, Info, Warn,
// or Error rather than fmt.Println, so diagnostic output stays consistent
// between the scheduler, the worker pool, and the plug-ins.
//
// Initialization is a single call, InitForCLI, which wires a slog text
// handler at the requested minimum level. Audit exists separately for the
// handful of security-relevant actions (e.g. a plug-in spawning a process)
// that want a greppable, fixed-format line; it logs at INFO, so a logger
// initialized above INFO drops it.
package logging
