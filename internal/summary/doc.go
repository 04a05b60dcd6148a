// Package summary aggregates per-task outcomes into phase and overall
// results.
//
// A PhaseSummaryBuilder counts task statuses as a phase runs and freezes
// into a PhaseSummary once the phase ends. OverallSummaryBuilder collects
// built phase summaries and derives the run's overall result.
package summary
