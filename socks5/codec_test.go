package socks5

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadFullReturnsIOErrorOnContextCancellation(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	buf := make([]byte, 4)
	err := readFull(ctx, server, buf)

	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, IOErrorKind, ce.Kind)
}

func TestWriteAllWritesEveryByte(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	payload := []byte("hello socks5")
	done := make(chan error, 1)
	go func() { done <- writeAll(server, payload) }()

	got := make([]byte, len(payload))
	_, err := client.Read(got)
	require.NoError(t, err)
	require.NoError(t, <-done)
	require.Equal(t, payload, got)
}
