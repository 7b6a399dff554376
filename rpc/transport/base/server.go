package base

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/kmattheis/scenebridge/rpc/transport"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/xid"
)

// stopGracePeriod is how long Stop waits for in-flight requests before
// force-closing the remaining connections. Idle connections block in a
// read without deadline and are only unblocked by the force close.
const stopGracePeriod = 500 * time.Millisecond

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector  IServerConnector
	handler    transport.ServerHandleFunc
	config     common.ServerConfig
	bufferPool *sync.Pool
	bufferSize int

	mu         sync.Mutex
	running    bool
	listener   net.Listener
	acceptDone chan struct{}
	conns      *xsync.MapOf[string, net.Conn]
	handlers   sync.WaitGroup
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport using the given
// connector for listening and connection setup
func NewBaseServerTransport(connector IServerConnector, bufferSize int) transport.IRPCServerTransport {
	if bufferSize < frameHeaderSize {
		bufferSize = frameHeaderSize
	}

	return &serverTransport{
		connector:  connector,
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return make([]byte, bufferSize)
			},
		},
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Serve(config common.ServerConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("%s transport is already serving", t.connector.GetName())
	}
	if t.handler == nil {
		return fmt.Errorf("no handler registered")
	}

	// Create listener using the connector. This happens synchronously so
	// a bind failure reaches the caller directly.
	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}

	t.config = config
	t.listener = listener
	t.running = true
	t.acceptDone = make(chan struct{})
	t.conns = xsync.NewMapOf[string, net.Conn]()

	Logger.Infof("%s server listening on %s", t.connector.GetName(), listener.Addr())

	go t.acceptLoop(listener, t.conns, t.acceptDone)
	return nil
}

func (t *serverTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	listener := t.listener
	acceptDone := t.acceptDone
	conns := t.conns
	t.listener = nil
	t.mu.Unlock()

	// Close the listener to unblock Accept, then wait for the loop to exit
	if err := listener.Close(); err != nil {
		Logger.Warningf("error closing listener: %v", err)
	}
	<-acceptDone

	// Give in-flight requests a chance to finish, then cut off whatever
	// is left (this also unblocks idle connections waiting in a read)
	finished := make(chan struct{})
	go func() {
		t.handlers.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(stopGracePeriod):
		Logger.Infof("force closing %d remaining connections", conns.Size())
		conns.Range(func(id string, conn net.Conn) bool {
			conn.Close()
			return true
		})
		<-finished
	}

	Logger.Infof("%s server stopped", t.connector.GetName())
	return nil
}

func (t *serverTransport) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// acceptLoop accepts connections until the listener is closed
func (t *serverTransport) acceptLoop(listener net.Listener, conns *xsync.MapOf[string, net.Conn], acceptDone chan struct{}) {
	defer close(acceptDone)

	for {
		conn, err := listener.Accept()
		if err != nil {
			// Normal shutdown path
			if errors.Is(err, net.ErrClosed) {
				return
			}
			Logger.Errorf("accept error: %v", err)
			continue
		}

		if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
			Logger.Errorf("failed to upgrade connection from %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			continue
		}

		id := xid.New().String()
		conns.Store(id, conn)
		transport.ConnectionsOpened.Inc()

		t.handlers.Add(1)
		go func() {
			defer t.handlers.Done()
			defer conns.Delete(id)
			defer transport.ConnectionsClosed.Inc()
			t.handleConnection(id, conn)
		}()
	}
}

// handleConnection serves one connection. Requests are read and answered
// strictly one at a time, so the order of responses always matches the
// order of requests on this connection.
func (t *serverTransport) handleConnection(id string, conn net.Conn) {
	defer conn.Close()

	// A handler panic must never take the whole server down
	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("connection %s: handler panicked: %v", id, r)
		}
	}()

	Logger.Debugf("connection %s opened from %s", id, conn.RemoteAddr())

	writeTimeout := time.Duration(t.config.Transport.WriteTimeoutSec) * time.Second

	for {
		// Get a buffer from the pool. Note there is deliberately no read
		// deadline: automation clients may sit idle between commands.
		buf := t.bufferPool.Get().([]byte)
		data, err := readFrame(conn, buf)

		// Case EOF: connection closed by client
		if err == io.EOF {
			t.bufferPool.Put(buf)
			Logger.Debugf("connection %s closed by client", id)
			return
		}

		// Case error: log and close this connection only
		if err != nil {
			t.bufferPool.Put(buf)
			if !errors.Is(err, net.ErrClosed) {
				Logger.Errorf("connection %s: read error: %v", id, err)
			}
			return
		}

		// Process the request inline, this connection handles one
		// request at a time
		start := time.Now()
		resp := t.handler(data)
		Logger.Debugf("connection %s: request took %s", id, time.Since(start))

		if writeTimeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				t.bufferPool.Put(buf)
				Logger.Errorf("connection %s: failed to set write deadline: %v", id, err)
				return
			}
		}

		// Return the buffer only after the response left the socket, the
		// handler may answer with a slice aliasing the request
		err = writeFrame(conn, resp)
		t.bufferPool.Put(buf)
		if err != nil {
			Logger.Errorf("connection %s: write error: %v", id, err)
			return
		}
	}
}
