package base

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	payload := []byte(`{"type":"get_scene_info","params":{}}`)

	errCh := make(chan error, 1)
	go func() { errCh <- writeFrame(client, payload) }()

	// The provided buffer is smaller than the payload and must be grown
	got, err := readFrame(server, make([]byte, 8))
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.NoError(t, <-errCh)
}

func TestFrameEmptyPayload(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- writeFrame(client, nil) }()

	got, err := readFrame(server, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
	require.NoError(t, <-errCh)
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	// One byte over the limit must be rejected before anything is written,
	// otherwise this would block forever since nobody reads the pipe
	err := writeFrame(client, make([]byte, MaxFrameSize+1))
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds limit")
}

func TestReadFrameRejectsOversizedHeader(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	header := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint32(header, uint32(MaxFrameSize+1))
	go client.Write(header)

	_, err := readFrame(server, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds limit")
}

func BenchmarkFrameRoundTrip(b *testing.B) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	payload := bytes.Repeat([]byte("x"), 1024)
	serverBuf := make([]byte, 4096)
	clientBuf := make([]byte, 4096)

	go func() {
		for {
			data, err := readFrame(server, serverBuf)
			if err != nil {
				return
			}
			if err := writeFrame(server, data); err != nil {
				return
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := writeFrame(client, payload); err != nil {
			b.Fatal(err)
		}
		if _, err := readFrame(client, clientBuf); err != nil {
			b.Fatal(err)
		}
	}
}
