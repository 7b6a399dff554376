// Package ws implements a WebSocket-based transport layer for the scene bridge
// RPC system. It provides concrete implementations of the transport interfaces
// defined in the parent package, enabling communication with browser-based
// panels and other tooling that cannot open raw TCP sockets.
//
// Unlike the tcp and unix packages, this transport does not build on the base
// package: WebSocket messages already carry their own boundaries, so the
// 4-byte length framing is unnecessary and each RPC message maps to exactly
// one WebSocket message.
//
// The package focuses on:
//   - Server-side HTTP upgrade handling with per-connection read loops
//   - Client-side dialing with the same retry and reconnection behavior as the
//     stream transports
//   - A strictly serial request/response exchange per connection
//
// Key Components:
//
//   - wsServerTransport: Implements IRPCServerTransport, upgrading incoming
//     HTTP requests on any path and answering each message with exactly one
//     response message of the same type (text or binary).
//
//   - wsClientTransport: Implements IRPCClientTransport, sending requests as
//     binary messages and reading the paired response under a per-connection
//     mutex.
//
// Lifecycle:
//
//	Upgraded WebSocket connections are hijacked from the HTTP server, so
//	closing the listener alone does not terminate them. Stop therefore grants
//	in-flight handlers a short grace period and then force-closes every
//	remaining connection, mirroring the base transport's shutdown behavior.
package ws
