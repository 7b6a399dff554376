// Package rpc provides the remote procedure call framework of the scene
// bridge. It acts as the communication layer between automation clients and
// the single-threaded host, enabling scene operations across network
// boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Command/Response protocol, configuration structures, and
//     logging.
//
//   - transport: Network communication abstractions with pluggable
//     implementations (TCP, Unix sockets, WebSocket).
//
//   - serializer: Wire format implementations (JSON, GOB, CBOR) for
//     converting between protocol envelopes and byte arrays.
//
//   - bridge: The cross-thread execution bridge that hands commands from
//     connection goroutines to the host loop and enforces the execution
//     timeout.
//
//   - client: The typed RPC client for the scene command protocol, allowing
//     automation tools to drive a remote host transparently.
//
//   - server: RPC server components that handle incoming requests, including
//     the adapter that maps wire commands onto scene operations.
package rpc
