package transport

import "github.com/VictoriaMetrics/metrics"

// Connection counters shared by all transport implementations. The number
// of currently open connections is the difference of the two.
var (
	ConnectionsOpened = metrics.NewCounter("scenebridge_connections_opened_total")
	ConnectionsClosed = metrics.NewCounter("scenebridge_connections_closed_total")
)
