package unix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/stretchr/testify/require"
)

func TestUnixRoundTrip(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "bridge.sock")

	server := NewUnixDefaultServerTransport()
	server.RegisterHandler(func(req []byte) []byte {
		return append([]byte("ok:"), req...)
	})
	require.NoError(t, server.Serve(common.ServerConfig{Endpoint: socket}))
	defer server.Stop()

	client := NewUnixClientTransport()
	require.NoError(t, client.Connect(common.ClientConfig{
		Endpoints:     []string{socket},
		TimeoutSecond: 5,
		RetryCount:    3,
	}))
	defer client.Close()

	resp, err := client.Send([]byte("local"))
	require.NoError(t, err)
	require.Equal(t, "ok:local", string(resp))
}

func TestUnixRemovesStaleSocketFile(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "stale.sock")

	// A crashed previous instance leaves its socket file behind, Serve must
	// still be able to bind
	require.NoError(t, os.WriteFile(socket, nil, 0o600))

	server := NewUnixDefaultServerTransport()
	server.RegisterHandler(func(req []byte) []byte { return req })
	require.NoError(t, server.Serve(common.ServerConfig{Endpoint: socket}))
	defer server.Stop()
}
