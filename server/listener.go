package server

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/google/uuid"

	"github.com/loncothad/socker/internal/netutil"
)

// Logger is the minimal logging contract the listener uses to report
// per-session outcomes. A nil Logger is treated as a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// SessionRecorder is notified of session lifecycle events. Recording
// bytes is handled separately by netutil.ByteCounter, which Recorder
// implementations are expected to also satisfy.
type SessionRecorder interface {
	netutil.ByteCounter
	SessionStarted()
	SessionEnded(success bool)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// Listener accepts connections from an underlying net.Listener and
// serves each one as a SOCKS5 session until ctx is cancelled or Accept
// returns an error (any Accept error ends the loop). It is grounded on the teacher's Server.Start
// accept loop, generalized with a per-session correlation ID and
// pluggable logging/metrics.
type Listener struct {
	listener net.Listener
	store    *CredentialStore
	dialer   Dialer
	logger   Logger
	recorder SessionRecorder
}

// NewListener wraps listener to serve SOCKS5 sessions. logger and
// recorder may both be nil.
func NewListener(listener net.Listener, store *CredentialStore, dialer Dialer, logger Logger, recorder SessionRecorder) *Listener {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Listener{listener: listener, store: store, dialer: dialer, logger: logger, recorder: recorder}
}

// Run accepts connections until ctx is cancelled, serving each on its
// own goroutine. It returns nil if ctx cancellation caused the
// shutdown, or the Accept error otherwise.
func (l *Listener) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		l.listener.Close()
	}()

	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go l.serve(ctx, conn)
	}
}

func (l *Listener) serve(ctx context.Context, conn net.Conn) {
	sessionID := uuid.NewString()
	defer conn.Close()

	if l.recorder != nil {
		l.recorder.SessionStarted()
	}

	srv := New(conn, l.store, l.dialer, l.recorder)
	err := srv.ServeClient(ctx)

	success := err == nil || errors.Is(err, io.EOF)
	if l.recorder != nil {
		l.recorder.SessionEnded(success)
	}

	switch {
	case success:
		l.logger.Debugf("session %s completed", sessionID)
	default:
		l.logger.Warnf("session %s failed: %v", sessionID, err)
	}
}
