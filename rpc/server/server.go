package server

import (
	"errors"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/kmattheis/scenebridge/lib/host"
	"github.com/kmattheis/scenebridge/lib/scene"
	"github.com/kmattheis/scenebridge/rpc/bridge"
	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/kmattheis/scenebridge/rpc/serializer"
	"github.com/kmattheis/scenebridge/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"

	_ "net/http/pprof"
)

var (
	Logger = logger.GetLogger("rpc")

	// ErrAlreadyRunning is returned by Start while the server is serving
	ErrAlreadyRunning = errors.New("server already running")
)

// debugMetricsOnce guards the /metrics registration on the default mux. The
// pprof handlers register themselves through the net/http/pprof import.
var debugMetricsOnce sync.Once

// NewRPCServer creates a new RPC server for the given transport and wire
// format. The server owns the host loop and the scene document: the loop
// starts here and keeps running across Start/Stop cycles, so the scene
// survives a transport restart the same way it would inside a real host
// application.
//
// Usage:
//
//	s := server.NewRPCServer(
//		config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Start(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.ISerializer,
) *rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Init logger
	common.InitLoggers(config)

	s := &rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		loop:       host.NewLoop(),
	}

	// Build the dispatch table. The scene adapter contributes all command
	// handlers, each of them runs on the host loop with exclusive scene
	// access.
	dispatcher := bridge.NewDispatcher()
	NewSceneServerAdapter(scene.NewDocument()).Register(dispatcher)

	timeout := time.Duration(config.ExecTimeoutSecond) * time.Second
	s.bridge = bridge.NewBridge(s.loop, dispatcher, timeout)

	s.registerTransportHandler()

	Logger.Infof("Created RPC Server (%d commands registered)", dispatcher.Size())
	Logger.Infof(config.String())

	return s
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.ISerializer
	loop       *host.Loop
	bridge     *bridge.Bridge

	mu      sync.Mutex
	running bool
	debug   *http.Server
}

// registerTransportHandler wires the wire format and the bridge into the
// transport layer. The returned bytes always contain a serialized Response,
// a request that cannot be decoded is answered without involving the host.
func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(req []byte) []byte {
		var cmd common.Command
		var resp *common.Response

		if err := s.serializer.Deserialize(req, &cmd); err != nil {
			Logger.Debugf("failed to deserialize request: %v", err)
			resp = common.NewErrorResponsef("Invalid %s", s.serializer.Name())
		} else {
			resp = s.bridge.Execute(&cmd)
		}

		data, err := s.serializer.Serialize(resp)
		if err != nil {
			// The result payload could not be encoded, fall back to a plain
			// error envelope
			Logger.Errorf("failed to serialize response: %v", err)
			data, _ = s.serializer.Serialize(common.NewErrorResponsef("failed to serialize response: %v", err))
		}
		return data
	})
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Start binds the configured endpoint and begins serving. It returns once
// the transport is listening, request handling runs on background
// goroutines.
func (s *rpcServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	if err := s.transport.Serve(s.config); err != nil {
		return err
	}
	s.running = true

	if s.config.DebugEndpoint != "" {
		s.startDebugServerLocked()
	}

	return nil
}

// Stop shuts down the transport and the debug endpoint. The host loop and
// with it the scene keep running, Start may be called again. Safe to call
// multiple times.
func (s *rpcServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.debug != nil {
		s.debug.Close()
		s.debug = nil
	}

	return s.transport.Stop()
}

// Close stops the server and shuts down the host loop. The server cannot be
// started again afterwards.
func (s *rpcServer) Close() error {
	err := s.Stop()
	s.loop.Stop()
	return err
}

// Addr returns the address the transport is bound to, or nil when the
// server is not running. Needed to discover the actual port when the
// configured endpoint uses port 0.
func (s *rpcServer) Addr() net.Addr {
	return s.transport.Addr()
}

// --------------------------------------------------------------------------
// Debug Endpoint
// --------------------------------------------------------------------------

// startDebugServerLocked serves pprof and Prometheus metrics on the debug
// endpoint. The caller must hold the server mutex.
func (s *rpcServer) startDebugServerLocked() {
	debugMetricsOnce.Do(func() {
		http.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
			metrics.WritePrometheus(w, true)
		})
	})

	// The default mux carries the pprof handlers plus /metrics
	s.debug = &http.Server{Addr: s.config.DebugEndpoint}

	go func(srv *http.Server) {
		Logger.Infof("debug endpoint listening on %s (pprof and metrics)", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			Logger.Errorf("debug endpoint: %v", err)
		}
	}(s.debug)
}
