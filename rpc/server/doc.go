// Package server implements the RPC server of the scene bridge. It ties the
// transport, the wire format, the execution bridge and the scene together:
// requests arrive on connection goroutines, are decoded, handed to the host
// loop for execution and answered with the encoded result.
//
// The package focuses on:
//   - Server lifecycle (Start, Stop, Addr) around a pluggable transport
//   - Decoding commands and encoding responses with a pluggable serializer
//   - Adapter pattern to decouple the scene from RPC mechanisms
//   - An optional debug endpoint serving pprof and Prometheus metrics
//
// Key Components:
//
//   - IRPCServerAdapter: Interface for server adapters. An adapter registers
//     the command handlers for one concern of the host application into the
//     dispatch table.
//
//   - NewSceneServerAdapter: Factory function creating the adapter for scene
//     manipulation, translating wire commands into scene.IScene method calls.
//     It registers all object, material, collection and animation commands.
//
//   - NewRPCServer: Factory function creating a configured server with the
//     specified transport and serializer.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Endpoint:          "localhost:8765",
//	  ExecTimeoutSecond: 5,
//	  LogLevel:          "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Start(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Execution Model:
//
//	The server owns a host loop and the scene document living on it. Every
//	command handler runs on that single loop goroutine, one command at a
//	time, regardless of how many client connections are active. Connection
//	goroutines only decode, wait and encode. Stopping the server shuts down
//	the transport but leaves the loop and the scene intact, so a later Start
//	serves the same scene again.
//
// Thread Safety:
//
//	Start, Stop, Close and Addr are safe for concurrent use. Requests are
//	accepted concurrently across connections and serialized by the host
//	loop, per connection the protocol is strictly sequential.
package server
