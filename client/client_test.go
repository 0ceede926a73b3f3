package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loncothad/socker/socks5"
)

// fakeServer plays the server half of the handshake directly against
// the wire, independent of the server package, so these tests only
// exercise the client state machine.
func fakeServer(t *testing.T, conn net.Conn, chosen socks5.AuthenticationMethod, authStatus socks5.Status, reply socks5.Reply) {
	t.Helper()

	greeting, err := socks5.DecodeClientGreeting(context.Background(), conn)
	require.NoError(t, err)
	require.Contains(t, greeting.Methods, chosen)

	choice := socks5.ServerChoice{Method: chosen}
	require.NoError(t, choice.EncodeTo(conn))

	if chosen == socks5.UsernamePassword {
		_, err := socks5.DecodeUsernamePasswordRequest(context.Background(), conn)
		require.NoError(t, err)
		resp := socks5.UsernamePasswordResponse{Status: authStatus}
		require.NoError(t, resp.EncodeTo(conn))
		if authStatus.IsFailure() {
			return
		}
	}

	request, err := socks5.DecodeRequest(context.Background(), conn)
	require.NoError(t, err)

	resp := socks5.Response{Reply: reply, Address: request.Address, Port: request.Port}
	require.NoError(t, resp.EncodeTo(conn))
}

func TestConnectToTargetNoAuthSuccess(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	go fakeServer(t, serverConn, socks5.NoAuthentication, socks5.StatusSuccess, socks5.ReplySuccess)

	c := New(clientConn, []socks5.AuthenticationMethod{socks5.NoAuthentication}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	target := socks5.NewIPv4Address(net.ParseIP("203.0.113.9"))
	conn, err := c.ConnectToTarget(ctx, target, 443)
	require.NoError(t, err)
	require.NotNil(t, conn)
}

func TestConnectToTargetUsernamePasswordSuccess(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	go fakeServer(t, serverConn, socks5.UsernamePassword, socks5.StatusSuccess, socks5.ReplySuccess)

	creds, err := NewCredentials([]byte("alice"), []byte("hunter2"))
	require.NoError(t, err)

	c := New(clientConn, []socks5.AuthenticationMethod{socks5.NoAuthentication, socks5.UsernamePassword}, creds)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	target := socks5.NewIPv4Address(net.ParseIP("203.0.113.9"))
	_, err = c.ConnectToTarget(ctx, target, 80)
	require.NoError(t, err)
}

func TestConnectToTargetAuthenticationFailed(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	go fakeServer(t, serverConn, socks5.UsernamePassword, socks5.StatusFailure, socks5.ReplySuccess)

	creds, err := NewCredentials([]byte("alice"), []byte("wrong"))
	require.NoError(t, err)

	c := New(clientConn, []socks5.AuthenticationMethod{socks5.UsernamePassword}, creds)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = c.ConnectToTarget(ctx, socks5.NewIPv4Address(net.ParseIP("203.0.113.9")), 80)
	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, AuthenticationFailedKind, clientErr.Kind)
}

func TestConnectToTargetNoCredentialsButServerDemandsAuth(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	go func() {
		greeting, err := socks5.DecodeClientGreeting(context.Background(), serverConn)
		require.NoError(t, err)
		require.NotContains(t, greeting.Methods, socks5.UsernamePassword)
		choice := socks5.ServerChoice{Method: socks5.UsernamePassword}
		require.NoError(t, choice.EncodeTo(serverConn))
	}()

	c := New(clientConn, []socks5.AuthenticationMethod{socks5.NoAuthentication}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.ConnectToTarget(ctx, socks5.NewIPv4Address(net.ParseIP("203.0.113.9")), 80)
	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, UnsupportedAuthMethodKind, clientErr.Kind)
}

func TestConnectToTargetRequestFailed(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	go fakeServer(t, serverConn, socks5.NoAuthentication, socks5.StatusSuccess, socks5.ReplyHostUnreachable)

	c := New(clientConn, []socks5.AuthenticationMethod{socks5.NoAuthentication}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.ConnectToTarget(ctx, socks5.NewIPv4Address(net.ParseIP("203.0.113.9")), 80)
	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, RequestFailedKind, clientErr.Kind)
	require.Equal(t, socks5.ReplyHostUnreachable, clientErr.Reply)
}
