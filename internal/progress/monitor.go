package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"itest/internal/summary"
	"itest/pkg/strings"

	ptext "github.com/jedib0t/go-pretty/v6/text"
)

// channelCapacity bounds the progress channel, matching the spec's
// documented capacity for both the result channel and the event channel.
const channelCapacity = 100

// Monitor is the single background consumer that serializes Events to an
// output writer. Construct one with NewMonitor, call Start once, hand out
// Listeners to producers, and call Shutdown exactly once after the final
// summary has been emitted.
type Monitor struct {
	events     chan Event
	done       chan struct{}
	out        io.Writer
	maxNameLen int
}

// NewMonitor returns a Monitor that writes styled progress lines to out.
// maxNameLen is the longest task name known at construction, used to
// left-pad the TaskName column so it lines up regardless of arrival order.
func NewMonitor(out io.Writer, maxNameLen int) *Monitor {
	return &Monitor{
		events:     make(chan Event, channelCapacity),
		done:       make(chan struct{}),
		out:        out,
		maxNameLen: maxNameLen,
	}
}

// Start launches the consumer goroutine. It must be called before any
// Listener sends an event.
func (m *Monitor) Start() {
	go m.consume()
}

// Listener returns a handle producers use to emit events. Listener is
// cheap to copy; it wraps a channel send.
func (m *Monitor) Listener() Listener {
	return Listener{events: m.events}
}

// Shutdown sends the sentinel shutdown event and waits for the consumer
// goroutine to drain and exit. It must be called exactly once, after the
// final summary has been sent.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.events <- Event{kind: kindShutdown}
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) consume() {
	defer close(m.done)
	for ev := range m.events {
		switch ev.kind {
		case kindShutdown:
			return
		case kindPhaseStarted:
			fmt.Fprintf(m.out, "=== %s (%d tasks) ===\n", ev.Phase, ev.NumTasks)
		case kindUpdateTask:
			m.renderUpdateTask(ev)
		case kindPhaseFinished:
			fmt.Fprintln(m.out, ev.PhaseSummary.String())
		case kindFinalStatus:
			fmt.Fprintln(m.out, "--- summary ---")
			fmt.Fprintln(m.out, ev.Overall.String())
		}
	}
}

func (m *Monitor) renderUpdateTask(ev Event) {
	name := ptext.Bold.Sprint(pad(ev.TaskName, m.maxNameLen))
	status := colorize(ev.Status)
	switch ev.Status {
	case TaskRunning:
		fmt.Fprintf(m.out, "[%s] %s %s\n", ev.Phase, name, status)
	case TaskFailed:
		msg := strings.TruncateOneLine(ev.ErrMsg, strings.DefaultErrMsgMaxLen)
		fmt.Fprintf(m.out, "[%s] %s %s (%s) %s\n", ev.Phase, name, status, ev.Duration.Round(time.Millisecond), msg)
	default:
		fmt.Fprintf(m.out, "[%s] %s %s (%s)\n", ev.Phase, name, status, ev.Duration.Round(time.Millisecond))
	}
}

func pad(name string, width int) string {
	for len(name) < width {
		name += " "
	}
	return name
}

func colorize(status TaskStatus) string {
	switch status {
	case TaskOk:
		return ptext.FgGreen.Sprint(status.String())
	case TaskSkipped:
		return ptext.FgYellow.Sprint(status.String())
	case TaskFailed:
		return ptext.FgRed.Sprint(status.String())
	default:
		return status.String()
	}
}

// Listener is the producer-facing handle for emitting Events. The zero
// value is not usable; obtain one from Monitor.Listener.
type Listener struct {
	events chan<- Event
}

// PhaseStarted emits PhaseStarted{phase, numTasks}.
func (l Listener) PhaseStarted(phase Phase, numTasks int) {
	l.events <- Event{kind: kindPhaseStarted, Phase: phase, NumTasks: numTasks}
}

// TaskRunning emits UpdateTask{status: Running}.
func (l Listener) TaskRunning(phase Phase, name string) {
	l.events <- Event{kind: kindUpdateTask, Phase: phase, TaskName: name, Status: TaskRunning}
}

// TaskDone emits UpdateTask{status: Ok}.
func (l Listener) TaskDone(phase Phase, name string, d time.Duration) {
	l.events <- Event{kind: kindUpdateTask, Phase: phase, TaskName: name, Status: TaskOk, Duration: d}
}

// TaskFailed emits UpdateTask{status: Failed, errMsg}.
func (l Listener) TaskFailed(phase Phase, name string, d time.Duration, errMsg string) {
	l.events <- Event{kind: kindUpdateTask, Phase: phase, TaskName: name, Status: TaskFailed, Duration: d, ErrMsg: errMsg}
}

// PhaseFinished emits PhaseFinished{summary}.
func (l Listener) PhaseFinished(s summary.PhaseSummary) {
	l.events <- Event{kind: kindPhaseFinished, PhaseSummary: s}
}

// FinalStatus emits FinalStatus{summary}.
func (l Listener) FinalStatus(overall summary.OverallSummary) {
	l.events <- Event{kind: kindFinalStatus, Overall: overall}
}
