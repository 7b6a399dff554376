package bridge

import (
	"sort"

	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
)

// HandlerFunc executes one command against the scene state. Handlers are
// invoked on the host loop goroutine only, so they may touch single-threaded
// state freely. They must return a Response for every input; faults are
// reported as error Responses, never as panics.
type HandlerFunc func(params map[string]interface{}) *common.Response

// NewDispatcher creates an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: xsync.NewMapOf[string, HandlerFunc](),
	}
}

// Dispatcher maps command type strings to their handlers. Registration
// happens once during server startup, lookups run concurrently (one per
// incoming request).
type Dispatcher struct {
	handlers *xsync.MapOf[string, HandlerFunc]
}

// Register installs the handler for the given command type. Registering the
// same type again replaces the previous handler.
func (d *Dispatcher) Register(cmdType string, handler HandlerFunc) {
	d.handlers.Store(cmdType, handler)
}

// Resolve returns the handler for the given command type, or false if no
// handler is registered.
func (d *Dispatcher) Resolve(cmdType string) (HandlerFunc, bool) {
	return d.handlers.Load(cmdType)
}

// Size returns the number of registered command types.
func (d *Dispatcher) Size() int {
	return d.handlers.Size()
}

// Types returns all registered command types in sorted order.
func (d *Dispatcher) Types() []string {
	types := make([]string, 0, d.handlers.Size())
	d.handlers.Range(func(cmdType string, _ HandlerFunc) bool {
		types = append(types, cmdType)
		return true
	})
	sort.Strings(types)
	return types
}
