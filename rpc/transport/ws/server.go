package ws

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/kmattheis/scenebridge/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/xid"
)

var Logger = logger.GetLogger("transport/rpc")

// stopGracePeriod is how long Stop waits for in-flight requests before
// force-closing the remaining websocket connections. Websocket connections
// are hijacked from the HTTP server, so the server shutdown does not close
// them for us.
const stopGracePeriod = 500 * time.Millisecond

// NewWSServerTransport creates a new websocket server transport. Every
// websocket message carries exactly one request or response payload, the
// message boundary replaces the length prefix of the socket transports.
func NewWSServerTransport() transport.IRPCServerTransport {
	return &wsServerTransport{}
}

type wsServerTransport struct {
	handler  transport.ServerHandleFunc
	config   common.ServerConfig
	upgrader websocket.Upgrader

	mu       sync.Mutex
	running  bool
	listener net.Listener
	server   *http.Server
	conns    *xsync.MapOf[string, *websocket.Conn]
	handlers sync.WaitGroup
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *wsServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *wsServerTransport) Serve(config common.ServerConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("ws transport is already serving")
	}
	if t.handler == nil {
		return fmt.Errorf("no handler registered")
	}

	// Bind synchronously so the caller sees bind failures directly
	listener, err := net.Listen("tcp", config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to create TCP socket: %v", err)
	}

	t.config = config
	t.upgrader = websocket.Upgrader{
		ReadBufferSize:  config.Transport.ReadBufferSize,
		WriteBufferSize: config.Transport.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			// Local automation tooling, not a browser-facing service
			return true
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", t.handleUpgrade)

	t.listener = listener
	t.server = &http.Server{Handler: mux}
	t.running = true
	t.conns = xsync.NewMapOf[string, *websocket.Conn]()

	Logger.Infof("ws server listening on %s", listener.Addr())

	go func(server *http.Server) {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			Logger.Errorf("ws server error: %v", err)
		}
	}(t.server)

	return nil
}

func (t *wsServerTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	server := t.server
	conns := t.conns
	t.listener = nil
	t.server = nil
	t.mu.Unlock()

	// Closes the listener; upgraded connections are hijacked and stay open
	if err := server.Close(); err != nil {
		Logger.Warningf("error closing ws server: %v", err)
	}

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
		conns.Range(func(id string, conn *websocket.Conn) bool {
			conn.Close()
			return true
		})
		<-finished
	}

	Logger.Infof("ws server stopped")
	return nil
}

func (t *wsServerTransport) Addr() net.Addr {
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

// handleUpgrade upgrades one HTTP request to a websocket connection and
// serves it until the peer disconnects. The HTTP server runs each request
// on its own goroutine, so this method is the connection handler.
func (t *wsServerTransport) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		Logger.Errorf("failed to upgrade connection from %s: %v", r.RemoteAddr, err)
		return
	}

	id := xid.New().String()
	t.conns.Store(id, conn)
	transport.ConnectionsOpened.Inc()
	t.handlers.Add(1)
	defer func() {
		conn.Close()
		t.conns.Delete(id)
		transport.ConnectionsClosed.Inc()
		t.handlers.Done()
	}()

	// A handler panic must never take the whole server down
	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("connection %s: handler panicked: %v", id, r)
		}
	}()

	Logger.Debugf("connection %s opened from %s", id, conn.RemoteAddr())

	writeTimeout := time.Duration(t.config.Transport.WriteTimeoutSec) * time.Second

	for {
		// One message is one request. No read deadline: automation
		// clients may sit idle between commands.
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				Logger.Errorf("connection %s: read error: %v", id, err)
			} else {
				Logger.Debugf("connection %s closed by client", id)
			}
			return
		}

		start := time.Now()
		resp := t.handler(data)
		Logger.Debugf("connection %s: request took %s", id, time.Since(start))

		if writeTimeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				Logger.Errorf("connection %s: failed to set write deadline: %v", id, err)
				return
			}
		}

		// Respond with the same message type the request used, text
		// for browser-side JSON clients, binary for everything else
		if err := conn.WriteMessage(msgType, resp); err != nil {
			Logger.Errorf("connection %s: write error: %v", id, err)
			return
		}
	}
}
