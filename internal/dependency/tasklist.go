package dependency

import "fmt"

// Status is the lifecycle status of a task within a single run.
type Status int

const (
	// Waiting tasks have at least one predecessor that has not succeeded.
	Waiting Status = iota
	// Success tasks have been popped from the ready queue, executed, and
	// reported success.
	Success
	// Skipped tasks never ran because a predecessor failed.
	Skipped
	// Failed tasks ran and reported failure.
	Failed
)

// String renders the status the way it is displayed in progress output.
func (s Status) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case Success:
		return "Success"
	case Skipped:
		return "Skipped"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Task is an opaque dense index into a declaration table. Two Tasks are
// equal iff they index the same declaration. The zero value is a valid
// Task only when it was actually produced by a TaskList.
type Task int

type taskState struct {
	status    Status
	unblocks  []Task
	blockedBy map[Task]struct{}
}

// TaskList is the mutable runtime state of a dependency DAG: a ready queue
// plus per-task status and adjacency. It is not safe for concurrent use;
// callers serialize access to a single TaskList (the SetUp phase driver
// does this by being its only caller).
type TaskList struct {
	ready []Task
	tasks []taskState
}

// NewTaskList builds a TaskList from a dependency array: deps[i] lists the
// Task indices that task i depends on. Tasks with no dependencies start on
// the ready queue.
func NewTaskList(deps [][]Task) *TaskList {
	tasks := make([]taskState, len(deps))
	var ready []Task
	for id, ds := range deps {
		blocked := make(map[Task]struct{}, len(ds))
		for _, d := range ds {
			blocked[d] = struct{}{}
		}
		tasks[id] = taskState{status: Waiting, blockedBy: blocked}
		if len(ds) == 0 {
			ready = append(ready, Task(id))
		}
	}
	for id, ds := range deps {
		for _, d := range ds {
			tasks[d].unblocks = append(tasks[d].unblocks, Task(id))
		}
	}
	return &TaskList{ready: ready, tasks: tasks}
}

// Len returns the number of tasks in the list.
func (l *TaskList) Len() int {
	return len(l.tasks)
}

// Status returns the current status of a task.
func (l *TaskList) Status(t Task) Status {
	return l.tasks[t].status
}

// PopReady drains and returns every task currently on the ready queue. A
// nil/empty result means the queue was empty at the time of the call; it
// is not a signal that scheduling is complete — callers must check
// NoneWaiting for that.
func (l *TaskList) PopReady() []Task {
	if len(l.ready) == 0 {
		return nil
	}
	ready := l.ready
	l.ready = nil
	return ready
}

// SetSuccess transitions a Waiting task to Success, unblocking any
// successor whose last unsatisfied predecessor was this task. It panics if
// the task is not currently Waiting — that can only happen from a driver
// bug, never from user input.
func (l *TaskList) SetSuccess(t Task) {
	l.mustBeWaiting(t)
	state := &l.tasks[t]
	for _, successor := range state.unblocks {
		succState := &l.tasks[successor]
		delete(succState.blockedBy, t)
		if len(succState.blockedBy) == 0 {
			l.ready = append(l.ready, successor)
		}
	}
	state.status = Success
}

// SetFailed transitions a Waiting task to Failed, clears the ready queue,
// and cascades every still-Waiting task to Skipped. It panics if the task
// is not currently Waiting.
func (l *TaskList) SetFailed(t Task) {
	l.mustBeWaiting(t)
	l.tasks[t].status = Failed
	l.ready = nil
	for i := range l.tasks {
		if l.tasks[i].status == Waiting {
			l.tasks[i].status = Skipped
		}
	}
}

func (l *TaskList) mustBeWaiting(t Task) {
	if l.tasks[t].status != Waiting {
		panic(fmt.Sprintf("dependency: invalid status transition for task %d (%s -> ...)", t, l.tasks[t].status))
	}
}

// AllSuccess reports whether every task has reached Success.
func (l *TaskList) AllSuccess() bool {
	for i := range l.tasks {
		if l.tasks[i].status != Success {
			return false
		}
	}
	return true
}

// NoneWaiting reports whether every task has reached a terminal status
// (Success, Skipped, or Failed).
func (l *TaskList) NoneWaiting() bool {
	for i := range l.tasks {
		if l.tasks[i].status == Waiting {
			return false
		}
	}
	return true
}
