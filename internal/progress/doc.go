// Package progress renders the asynchronous stream of SetUp/Test/TearDown
// events produced by workers and phase drivers into deterministic,
// optionally styled stdout output.
//
// A Monitor owns a single bounded channel and a background consumer
// goroutine; producers obtain a cheap-to-copy Listener and call its
// PhaseStarted/TaskRunning/TaskDone/TaskFailed/PhaseFinished/FinalStatus
// methods. Because only one goroutine ever writes to the output, events
// from concurrent workers are serialized in send order without a mutex
// around stdout.
package progress
