package common

import (
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// Valid port range for tcp and ws endpoints. Ports below 1024 require
// elevated privileges and are rejected at configuration time.
const (
	MinPort = 1024
	MaxPort = 65535
)

// TransportConfig tunes the socket behavior of the connection oriented
// transports. The zero value keeps the operating system defaults.
type TransportConfig struct {
	// TCPNoDelay disables Nagle's algorithm (tcp transport only)
	TCPNoDelay bool

	// TCPKeepAliveSec enables keep-alive probes when > 0 (tcp only)
	TCPKeepAliveSec int

	// TCPLingerSec sets the socket linger time in seconds when > 0
	TCPLingerSec int

	// WriteBufferSize sets the socket write buffer in bytes when > 0
	WriteBufferSize int

	// ReadBufferSize sets the socket read buffer in bytes when > 0
	ReadBufferSize int

	// WriteTimeoutSec bounds a single response write when > 0. There is
	// deliberately no read counterpart: idle automation clients may keep
	// their connection open indefinitely.
	WriteTimeoutSec int
}

// ServerConfig holds all configuration parameters for the bridge server.
type ServerConfig struct {
	// Endpoint the server listens on. Interpreted by the selected
	// transport: "host:port" for tcp and ws, a filesystem path for unix.
	Endpoint string

	// ExecTimeoutSecond is the maximum time a single command may occupy
	// the host loop before the waiting client receives a timeout error.
	ExecTimeoutSecond int64

	// DebugEndpoint serves /metrics and pprof when set ("" disables).
	DebugEndpoint string

	// Logging configuration
	LogLevel string

	// Socket tuning for the selected transport
	Transport TransportConfig
}

// Validate checks the configuration for values that can be rejected before
// the server ever binds. Endpoints without a port (unix socket paths) are
// only checked for presence.
func (c *ServerConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if c.ExecTimeoutSecond <= 0 {
		return fmt.Errorf("execution timeout must be positive (got %d)", c.ExecTimeoutSecond)
	}
	if _, portStr, err := net.SplitHostPort(c.Endpoint); err == nil {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid port %q in endpoint %q", portStr, c.Endpoint)
		}
		if port < MinPort || port > MaxPort {
			return fmt.Errorf("port must be between %d and %d (got %d)", MinPort, MaxPort, port)
		}
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Exec Timeout", fmt.Sprintf("%d sec", c.ExecTimeoutSecond))

	// Transport tuning
	addSection("Transport")
	addField("TCP NoDelay", strconv.FormatBool(c.Transport.TCPNoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.Transport.TCPKeepAliveSec))
	addField("Write Timeout", fmt.Sprintf("%d sec", c.Transport.WriteTimeoutSec))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Debug listener
	if c.DebugEndpoint != "" {
		addSection("Debug")
		addField("Endpoint", c.DebugEndpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoints              []string
	TimeoutSecond          int
	RetryCount             int
	ConnectionsPerEndpoint int

	// Socket tuning for the selected transport
	Transport TransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
