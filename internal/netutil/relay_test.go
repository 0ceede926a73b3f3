package netutil

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingCounter struct {
	counts map[string]int64
}

func (c *countingCounter) AddBytes(direction string, n int64) {
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	c.counts[direction] += n
}

func TestRelayCopiesBothDirections(t *testing.T) {
	aLocal, aRemote := net.Pipe()
	bLocal, bRemote := net.Pipe()

	counter := &countingCounter{}
	done := make(chan error, 1)
	go func() { done <- Relay(aRemote, bRemote, counter) }()

	go func() {
		buf := make([]byte, 5)
		bLocal.Read(buf)
		bLocal.Write([]byte("world"))
	}()

	_, err := aLocal.Write([]byte("hello"))
	require.NoError(t, err)

	reply := make([]byte, 5)
	_, err = aLocal.Read(reply)
	require.NoError(t, err)
	require.Equal(t, "world", string(reply))

	aLocal.Close()
	bLocal.Close()

	require.NoError(t, <-done)
	require.Equal(t, int64(5), counter.counts[DirectionClientToTarget])
	require.Equal(t, int64(5), counter.counts[DirectionTargetToClient])
}

// TestRelayTerminatesOnFirstCompletion is the critical bounded-
// termination property: when one side closes cleanly, Relay must
// return promptly rather than waiting for the other, still-open side.
func TestRelayTerminatesOnFirstCompletion(t *testing.T) {
	aLocal, aRemote := net.Pipe()
	bLocal, bRemote := net.Pipe()
	defer aLocal.Close()
	defer bLocal.Close()

	done := make(chan error, 1)
	go func() { done <- Relay(aRemote, bRemote, nil) }()

	// The target side (b) closes immediately; the client side (a)
	// never sends anything and is never closed by the test.
	bLocal.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Relay did not terminate within bound after one side closed")
	}
}
