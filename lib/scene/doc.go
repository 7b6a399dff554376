// Package scene provides the in-memory scene document that the bridge's
// command handlers operate on. It models the host application's data model
// (objects, materials, collections, animation state) closely enough that
// automation clients can be developed and tested against it without a running
// host.
//
// The package focuses on:
//   - A unified interface (IScene) for scene manipulation across implementations
//   - Blender-compatible naming semantics (".001" style deduplication)
//   - Deterministic, name-sorted listings for stable client output
//
// Key Components:
//
//   - IScene Interface: The core abstraction defining operations for creating,
//     transforming, and inspecting scene content. All command handlers are
//     written against this interface, allowing tests to substitute
//     instrumented implementations.
//
//   - Document: The reference implementation. It holds plain maps and is
//     intentionally NOT safe for concurrent use: the execution bridge
//     guarantees that all calls happen on the single host loop goroutine,
//     which is exactly the constraint the real host application imposes.
//
//   - Value Types: Vec3 and Color are fixed-size float64 arrays matching the
//     host's transform and RGBA conventions. Object, Material and Collection
//     carry the state that scene inspection commands report.
//
// Mutating operations validate their inputs fully before touching state, so
// a failed call leaves the document unchanged. Error messages use the exact
// phrasing the wire protocol exposes to clients (e.g. "Object 'X' not found").
package scene
