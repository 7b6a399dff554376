// Package bridge implements the cross-thread execution bridge between
// connection goroutines and the single-threaded host loop. Connection
// handlers may arrive on any number of goroutines, but all scene mutations
// must happen on exactly one: the bridge queues each command as a one-shot
// task, waits for its completion slot to be filled, and enforces a bounded
// wait so a stuck or slow host can never wedge a client connection.
//
// The package focuses on:
//   - A concurrent dispatch table mapping command types to handlers
//   - Exactly-once completion semantics via 1-buffered result channels
//   - Bounded waiting with cooperative cancellation of stale commands
//   - Panic isolation so a faulty handler cannot take down the host loop
//
// Key Components:
//
//   - Dispatcher: The command registry. Handlers are registered once during
//     server startup and resolved concurrently per request. Unknown command
//     types are rejected before anything is scheduled on the host.
//
//   - Bridge: Created with NewBridge from a host.Runner, a Dispatcher and a
//     timeout. Execute is the single entry point: it schedules the command,
//     blocks on the completion channel against a deadline timer, and maps
//     every outcome (result, handler error, panic, timeout, stopped host)
//     to a protocol Response.
//
//   - HandlerFunc: The handler contract. Handlers run on the host loop
//     goroutine only, which is what makes single-threaded scene state safe
//     to touch without locks.
//
// Timeout Semantics:
//
//	A command that misses its deadline is not removed from the queue (the
//	queue belongs to the host, not to us). Instead its pending execution is
//	flagged as cancelled: if the host loop has not started the command yet
//	it is skipped entirely and the scene stays untouched; if execution was
//	already in flight the late result is discarded. Both cases are counted
//	in the package metrics.
package bridge
