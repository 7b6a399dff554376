package ws

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/stretchr/testify/require"
)

func TestWebSocketRoundTrip(t *testing.T) {
	server := NewWSServerTransport()
	server.RegisterHandler(func(req []byte) []byte {
		return append([]byte("ws:"), req...)
	})
	require.NoError(t, server.Serve(common.ServerConfig{Endpoint: "127.0.0.1:0"}))
	defer server.Stop()

	client := NewWSClientTransport()
	require.NoError(t, client.Connect(common.ClientConfig{
		Endpoints:     []string{server.Addr().String()},
		TimeoutSecond: 5,
		RetryCount:    3,
	}))
	defer client.Close()

	resp, err := client.Send([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "ws:hello", string(resp))
}

func TestWebSocketEchoesMessageType(t *testing.T) {
	// Browser clients send JSON as text messages and expect text back
	server := NewWSServerTransport()
	server.RegisterHandler(func(req []byte) []byte {
		return append([]byte(nil), req...)
	})
	require.NoError(t, server.Serve(common.ServerConfig{Endpoint: "127.0.0.1:0"}))
	defer server.Stop()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+server.Addr().String()+"/", nil)
	require.NoError(t, err)
	defer conn.Close()

	payload := `{"type":"get_scene_info","params":{}}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))

	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, msgType)
	require.Equal(t, payload, string(data))

	// Binary requests get binary responses on the same connection
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))

	msgType, data, err = conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, msgType)
	require.Equal(t, []byte{0x01, 0x02}, data)
}

func TestWebSocketStopClosesConnections(t *testing.T) {
	server := NewWSServerTransport()
	server.RegisterHandler(func(req []byte) []byte { return req })
	require.NoError(t, server.Serve(common.ServerConfig{Endpoint: "127.0.0.1:0"}))

	// Upgraded connections are hijacked from the HTTP server, Stop must
	// close them explicitly
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+server.Addr().String()+"/", nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	require.NoError(t, server.Stop())
	require.Less(t, time.Since(start), 3*time.Second)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}

func TestWebSocketRestartAfterStop(t *testing.T) {
	server := NewWSServerTransport()
	server.RegisterHandler(func(req []byte) []byte { return req })

	require.NoError(t, server.Serve(common.ServerConfig{Endpoint: "127.0.0.1:0"}))
	addr := server.Addr().String()
	require.NoError(t, server.Stop())

	require.NoError(t, server.Serve(common.ServerConfig{Endpoint: addr}))
	defer server.Stop()

	client := NewWSClientTransport()
	require.NoError(t, client.Connect(common.ClientConfig{
		Endpoints:     []string{addr},
		TimeoutSecond: 5,
		RetryCount:    3,
	}))
	defer client.Close()

	resp, err := client.Send([]byte("back"))
	require.NoError(t, err)
	require.Equal(t, "back", string(resp))
}
