package server

import (
	"github.com/kmattheis/scenebridge/rpc/bridge"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// An adapter contributes the command handlers for one concern of the host
// application by registering them into the server's dispatch table
type IRPCServerAdapter interface {
	// Register installs the adapter's handlers into the dispatch table
	// It is called once during server construction, before the transport
	// accepts any connection
	Register(dispatcher *bridge.Dispatcher)
}
