// Package dependency builds and schedules the directed acyclic graph of
// setup tasks that the harness brings up before running tests.
//
// A Builder accumulates named declarations and their dependency edges and
// validates every name and edge at once in Build. Build produces a
// DepTable, an immutable view used to construct a TaskList: the mutable
// scheduler that tracks which tasks are ready, still waiting, or have
// reached a terminal status.
//
// Tasks are represented as dense indices (Task) into the declaration
// table rather than as heap-allocated nodes pointing at each other, so the
// graph has no reference cycles for the teardown phase to untangle.
package dependency
