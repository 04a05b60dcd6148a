// Package config loads the harness's optional defaults file: worker pool
// size and log directory overrides that would otherwise require editing
// call sites. Nothing in this package is required for a run — Load falls
// back to DefaultConfig when no file is present.
package config
