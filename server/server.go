// Package server implements the SOCKS5 server-side handshake and
// CONNECT relay described in spec.md §4.5: given an accepted stream,
// a credential store, and a dialer, it drives the handshake and
// relays traffic to the requested target.
package server

import (
	"context"
	"net"
	"strconv"

	"github.com/loncothad/socker/internal/netutil"
	"github.com/loncothad/socker/socks5"
)

// Dialer is the name-resolution/outbound-connect contract the server
// uses to reach CONNECT targets. *net.Dialer satisfies it directly.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Server drives one server-side SOCKS5 session over conn.
type Server struct {
	conn    net.Conn
	store   *CredentialStore
	dialer  Dialer
	counter netutil.ByteCounter
}

// New builds a Server. store may be nil, meaning the server accepts
// only NO_AUTHENTICATION. counter may be nil.
func New(conn net.Conn, store *CredentialStore, dialer Dialer, counter netutil.ByteCounter) *Server {
	return &Server{conn: conn, store: store, dialer: dialer, counter: counter}
}

// ServeClient drives the full server-side handshake and, for a
// CONNECT request, relays traffic until either direction completes.
// It returns once the session ends, successfully or not; the caller
// owns closing conn either way.
func (s *Server) ServeClient(ctx context.Context) error {
	greeting, err := socks5.DecodeClientGreeting(ctx, s.conn)
	if err != nil {
		return wrapProtocolError(err)
	}

	method := s.selectMethod(greeting.Methods)
	choice := socks5.ServerChoice{Method: method}
	if err := choice.EncodeTo(s.conn); err != nil {
		return &Error{Kind: IOErrorKind, Cause: err}
	}
	if method == socks5.NoAcceptableMethods {
		return &Error{Kind: NoAcceptableAuthMethodKind}
	}

	if method == socks5.UsernamePassword {
		if err := s.authenticate(ctx); err != nil {
			return err
		}
	}

	request, err := socks5.DecodeRequest(ctx, s.conn)
	if err != nil {
		return wrapProtocolError(err)
	}

	if request.Command != socks5.CmdConnect {
		resp := socks5.NewErrorResponse(socks5.ReplyCommandNotSupported)
		resp.EncodeTo(s.conn)
		return &Error{Kind: CommandNotSupportedKind, Command: request.Command}
	}

	return s.handleConnect(ctx, request)
}

// selectMethod prefers USERNAME_PASSWORD when the store has
// registered accounts, and NO_AUTHENTICATION otherwise - matching the
// teacher's selectPreferredSocks5AuthMethod ordering.
func (s *Server) selectMethod(offered []socks5.AuthenticationMethod) socks5.AuthenticationMethod {
	want := socks5.NoAuthentication
	if !s.store.Empty() {
		want = socks5.UsernamePassword
	}
	for _, m := range offered {
		if m == want {
			return want
		}
	}
	return socks5.NoAcceptableMethods
}

func (s *Server) authenticate(ctx context.Context) error {
	req, err := socks5.DecodeUsernamePasswordRequest(ctx, s.conn)
	if err != nil {
		return wrapProtocolError(err)
	}

	ok := s.store.Verify(req.Username, req.Password)
	status := socks5.StatusSuccess
	if !ok {
		status = socks5.StatusFailure
	}
	resp := socks5.UsernamePasswordResponse{Status: status}
	if err := resp.EncodeTo(s.conn); err != nil {
		return &Error{Kind: IOErrorKind, Cause: err}
	}
	if !ok {
		return &Error{Kind: AuthenticationFailedKind}
	}
	return nil
}

func (s *Server) handleConnect(ctx context.Context, request socks5.Request) error {
	target := net.JoinHostPort(request.Address.String(), strconv.Itoa(int(request.Port)))

	targetConn, err := s.dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		resp := socks5.NewErrorResponse(socks5.ReplyHostUnreachable)
		resp.EncodeTo(s.conn)
		return &Error{Kind: RequestFailedKind, Cause: err}
	}
	defer targetConn.Close()

	success := socks5.Response{
		Reply:   socks5.ReplySuccess,
		Address: request.Address,
		Port:    request.Port,
	}
	if err := success.EncodeTo(s.conn); err != nil {
		return &Error{Kind: IOErrorKind, Cause: err}
	}

	if err := netutil.Relay(s.conn, targetConn, s.counter); err != nil {
		return &Error{Kind: IOErrorKind, Cause: err}
	}
	return nil
}
