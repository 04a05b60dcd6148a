package summary

import (
	"fmt"
	"strings"
	"time"
)

// PhaseSummary is the frozen outcome of one phase: how long it took, how
// many tasks ended in each status, and whether the phase as a whole
// counts as Ok.
type PhaseSummary struct {
	Phase    string
	Result   Result
	Duration time.Duration
	Counts   map[TaskStatus]int
}

// String renders a PhaseSummary the way the progress monitor prints a
// PhaseFinished line.
func (s PhaseSummary) String() string {
	return fmt.Sprintf("%s: %s (%s) ok=%d skipped=%d failed=%d",
		s.Phase, s.Result, s.Duration.Round(time.Millisecond),
		s.Counts[Ok], s.Counts[Skipped], s.Counts[Failed])
}

// PhaseSummaryBuilder accumulates per-status counts for a single phase as
// it runs, then freezes them into a PhaseSummary.
type PhaseSummaryBuilder struct {
	phase  string
	start  time.Time
	counts map[TaskStatus]int
}

// NewPhaseSummaryBuilder starts a builder for phase, recording the current
// time as the phase's start instant.
func NewPhaseSummaryBuilder(phase string) *PhaseSummaryBuilder {
	return &PhaseSummaryBuilder{
		phase:  phase,
		start:  time.Now(),
		counts: make(map[TaskStatus]int),
	}
}

// Inc increments the count for status.
func (b *PhaseSummaryBuilder) Inc(status TaskStatus) {
	b.counts[status]++
}

// Build freezes the builder into a PhaseSummary. The phase result is Ok
// iff every counted task ended Ok.
func (b *PhaseSummaryBuilder) Build() PhaseSummary {
	total := 0
	for _, n := range b.counts {
		total += n
	}
	result := ResultOk
	if total != b.counts[Ok] {
		result = ResultFailed
	}
	return PhaseSummary{
		Phase:    b.phase,
		Result:   result,
		Duration: time.Since(b.start),
		Counts:   b.counts,
	}
}

// OverallSummary aggregates every phase of a run plus the run's total
// duration and overall result.
type OverallSummary struct {
	Phases   []PhaseSummary
	Duration time.Duration
	Result   Result
}

// String renders the overall summary as one line per phase followed by
// the overall verdict.
func (s OverallSummary) String() string {
	var b strings.Builder
	for _, p := range s.Phases {
		fmt.Fprintln(&b, p.String())
	}
	fmt.Fprintf(&b, "overall: %s (%s)", s.Result, s.Duration.Round(time.Millisecond))
	return b.String()
}

// OverallSummaryBuilder aggregates built PhaseSummaries into an
// OverallSummary.
type OverallSummaryBuilder struct {
	start  time.Time
	phases []PhaseSummary
}

// NewOverallSummaryBuilder starts a builder, recording the current time as
// the run's start instant.
func NewOverallSummaryBuilder() *OverallSummaryBuilder {
	return &OverallSummaryBuilder{start: time.Now()}
}

// Add appends a completed phase summary.
func (b *OverallSummaryBuilder) Add(phase PhaseSummary) {
	b.phases = append(b.phases, phase)
}

// Build freezes the builder. The overall result is Ok iff every added
// phase's result is Ok.
func (b *OverallSummaryBuilder) Build() OverallSummary {
	result := ResultOk
	for _, p := range b.phases {
		if p.Result != ResultOk {
			result = ResultFailed
			break
		}
	}
	return OverallSummary{
		Phases:   b.phases,
		Duration: time.Since(b.start),
		Result:   result,
	}
}
