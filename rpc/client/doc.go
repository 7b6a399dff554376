// Package client implements the RPC client for the scene bridge. It provides
// a typed implementation of the scene command protocol that communicates
// with a remote host via RPC.
//
// The package focuses on:
//   - Typed access to every scene command (objects, materials, collections,
//     animation)
//   - Integration with the transport and serialization layers
//   - Conversion of error responses into Go errors carrying the exact
//     server message
//
// Key Components:
//
//   - ISceneClient: The typed client interface. One method per wire command
//     plus a raw Send escape hatch for commands without a typed wrapper.
//
//   - NewRPCSceneClient: Factory function that connects the given transport
//     and returns an ISceneClient. All commands are forwarded to the remote
//     host via the configured transport layer.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  Endpoints:              []string{"localhost:8765"},
//	  TimeoutSecond:          5,
//	  RetryCount:             3,
//	  ConnectionsPerEndpoint: 1,
//	}
//
//	// Create the client
//	transport := tcp.NewTCPClientTransport()
//	scene, _ := client.NewRPCSceneClient(config, transport, serializer.NewJSONSerializer())
//	defer transport.Close()
//
//	// Build a small scene
//	obj, _ := scene.CreateObject("CUBE", []float64{0, 0, 1}, "Box")
//	mat, _ := scene.CreateMaterial("Steel", []float64{0.4, 0.4, 0.45, 1})
//	_ = scene.AssignMaterial(obj.Name, mat.Name)
//
//	// Inspect the result
//	info, _ := scene.SceneInfo()
//	fmt.Println(info.ActiveObject)
//
// Performance Considerations:
//
//   - Automation scripts usually drive the host from a single goroutine, the
//     default of one connection per endpoint is right for that. Increasing
//     ConnectionsPerEndpoint only helps when commands are sent concurrently,
//     the host still executes them one at a time.
//
//   - The choice of serializer affects payload size more than speed here,
//     commands are small. JSON is the interoperable default, GOB and CBOR
//     trade readability for compactness.
//
// Thread Safety:
//
//	The client is thread-safe and can be used concurrently from multiple
//	goroutines without additional synchronization.
package client
