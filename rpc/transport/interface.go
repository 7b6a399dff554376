package transport

import (
	"net"

	"github.com/kmattheis/scenebridge/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes the raw request payload and returns the raw response payload
type ServerHandleFunc func(req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC server transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler is called once per received request, strictly in
	// arrival order per connection
	RegisterHandler(handler ServerHandleFunc)

	// Serve binds the configured endpoint and starts accepting connections
	// on a background goroutine. It returns once the transport is
	// listening, a bind failure is reported synchronously.
	Serve(config common.ServerConfig) error

	// Stop closes the listener and, after a short grace period for
	// in-flight requests, all remaining connections. Safe to call
	// multiple times. After Stop returns, Serve may be called again.
	Stop() error

	// Addr returns the bound listener address, or nil when not serving.
	// Needed to discover the actual port when the endpoint uses port 0.
	Addr() net.Addr
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response. Each
	// call performs one full request/response exchange.
	Send(req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
