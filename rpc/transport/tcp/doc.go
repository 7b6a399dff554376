// Package tcp implements TCP socket-based transport for the scene bridge RPC
// system. It provides concrete implementations of the base package's connector
// interfaces optimized for TCP connections.
//
// This package builds on the base package's transport functionality, inheriting
// its framing, buffer reuse and connection lifecycle handling. See the base
// package documentation for detailed information on the underlying transport
// mechanisms.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of base.IClientConnector
//
//   - serverConnector: TCP-specific implementation of base.IServerConnector
//
// Both connectors apply the socket tuning from common.TransportConfig when a
// connection is established: TCP_NODELAY, keep-alive probing, linger and kernel
// buffer sizes. The default server read buffer is 64 KB, which comfortably
// holds typical command payloads, larger frames grow the buffer on demand.
package tcp
