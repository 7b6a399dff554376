// Package host provides the single-threaded execution context that owns all
// mutable application state. It is the bridge's answer to hosts (such as 3D
// content-creation tools) whose APIs may only be touched from one thread.
//
// The package contains:
//   - TaskQueue: A lock-free Multi-Producer Single-Consumer (MPSC) queue built
//     for high throughput and low latency. Connection goroutines push tasks
//     without ever blocking each other.
//   - Runner: The minimal scheduling interface the rest of the system depends
//     on. An embedding inside a real host application implements Runner on top
//     of the host's own one-shot timer or event API.
//   - Loop: A standalone Runner implementation backed by a TaskQueue and a
//     single consumer goroutine, used by the server binary and by tests.
//
// Tasks run strictly one at a time and in submission order. State touched
// exclusively from tasks therefore needs no locking, which is the invariant
// the scene document relies on.
package host
