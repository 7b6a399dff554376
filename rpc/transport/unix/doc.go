// Package unix implements a transport layer for the scene bridge RPC system
// using Unix domain sockets. It provides optimized communication for automation
// tooling running on the same machine as the host.
//
// This package extends the base transport layer with Unix socket-specific
// connectors while inheriting all core functionality like framing, connection
// lifecycle and error handling from the base package.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners and accepts connections
//
// The server removes a stale socket file before listening, so a crashed
// previous instance does not block the next start.
//
// Performance Characteristics:
//
//   - Default buffer size: 64 KB, optimized for local communication patterns
//   - Reduced overhead: Eliminates TCP/IP stack processing for better performance
//   - Lower latency: Direct kernel-mediated IPC avoids network subsystem overhead
package unix
