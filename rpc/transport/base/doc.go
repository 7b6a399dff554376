// Package base provides a foundation for the scene bridge transport layers,
// implementing core functionality for RPC communication independent of the specific
// network protocol (TCP, Unix sockets, etc.). It serves as a base layer that can be
// extended with protocol-specific connectors.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - Length-prefixed framing for message boundaries on stream sockets
//   - A strictly serial request/response exchange per connection
//   - Robust error handling with retries and reconnection logic
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - clientTransport: Core client implementation that manages one or more
//     connections with round-robin selection. A connection is checked out for the
//     duration of one full request/response exchange, matching the serial wire
//     protocol.
//
//   - serverTransport: Core server implementation that accepts connections and
//     handles the frames of each connection sequentially on a dedicated goroutine.
//
// Wire Format:
//
//	Every message is a frame: a 4-byte big-endian length prefix followed by the
//	payload. Frames larger than MaxFrameSize are rejected on both ends.
//
// Performance Optimizations:
//
//   - Buffer Pooling: The server uses a sync.Pool to reuse read buffers, reducing
//     GC pressure and memory allocations.
//
//   - Frame Batching: The transport uses net.Buffers to reduce syscalls when
//     writing frames, combining header and payload into a single write operation.
//
// Lifecycle:
//
//	The server binds its listener synchronously in Serve and accepts in the
//	background. Stop closes the listener, grants in-flight handlers a short grace
//	period, and then force-closes remaining connections so that idle clients
//	cannot delay shutdown. Connections carry no read deadline: automation
//	clients may legitimately stay silent for a long time between commands.
//
// Thread Safety:
//
//	All public methods are thread-safe. The client transport serializes each
//	exchange with a per-connection mutex, while the server creates a dedicated
//	goroutine for each connection.
package base
