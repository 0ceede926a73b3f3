// Package client implements the SOCKS5 client-side handshake and
// CONNECT request described in spec.md §4.4: given a stream, a set of
// offered authentication methods, and a target, it drives the
// handshake and hands back the stream ready for application traffic.
package client

import (
	"context"
	"net"

	"github.com/loncothad/socker/socks5"
)

// Credentials is an immutable username/password pair offered for the
// USERNAME_PASSWORD sub-negotiation. A nil *Credentials means the
// client does not support that method at all.
type Credentials struct {
	Username []byte
	Password []byte
}

// NewCredentials validates that both username and password fit the
// protocol's single-byte length prefix (spec.md §4.4.1): longer
// credentials are a configuration error reported locally, without
// writing anything to the wire.
func NewCredentials(username, password []byte) (*Credentials, error) {
	if len(username) > 255 || len(password) > 255 {
		return nil, ErrCredentialsTooLong
	}
	return &Credentials{Username: username, Password: password}, nil
}

// Client drives one client-side SOCKS5 handshake over conn.
type Client struct {
	conn        net.Conn
	methods     []socks5.AuthenticationMethod
	credentials *Credentials
}

// New builds a Client that will offer methods during the handshake.
// credentials may be nil; if the server then insists on
// USERNAME_PASSWORD, ConnectToTarget fails locally with an *Error of
// kind UnsupportedAuthMethodKind.
func New(conn net.Conn, methods []socks5.AuthenticationMethod, credentials *Credentials) *Client {
	return &Client{conn: conn, methods: methods, credentials: credentials}
}

// ConnectToTarget drives the full client handshake: greeting, method
// selection, sub-negotiation (if any), CONNECT request, and reply. On
// success it returns the underlying net.Conn, ready for application
// traffic. On any failure, the connection is left exactly as the
// protocol exchange left it - the caller owns closing it either way.
func (c *Client) ConnectToTarget(ctx context.Context, target socks5.Address, port uint16) (net.Conn, error) {
	greeting := socks5.ClientGreeting{Methods: c.methods}
	if err := greeting.EncodeTo(c.conn); err != nil {
		return nil, &Error{Kind: IOErrorKind, Cause: err}
	}

	choice, err := socks5.DecodeServerChoice(ctx, c.conn)
	if err != nil {
		return nil, wrapProtocolError(err)
	}

	if choice.Method == socks5.NoAcceptableMethods {
		return nil, &Error{Kind: UnsupportedAuthMethodKind, Method: choice.Method}
	}
	if !c.offered(choice.Method) {
		return nil, &Error{Kind: UnsupportedAuthMethodKind, Method: choice.Method}
	}

	switch choice.Method {
	case socks5.NoAuthentication:
		// nothing further to exchange
	case socks5.UsernamePassword:
		if c.credentials == nil {
			return nil, &Error{Kind: UnsupportedAuthMethodKind, Method: choice.Method}
		}
		if err := c.negotiateUsernamePassword(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, &Error{Kind: UnsupportedAuthMethodKind, Method: choice.Method}
	}

	request := socks5.Request{Command: socks5.CmdConnect, Address: target, Port: port}
	if err := request.EncodeTo(c.conn); err != nil {
		return nil, &Error{Kind: IOErrorKind, Cause: err}
	}

	response, err := socks5.DecodeResponse(ctx, c.conn)
	if err != nil {
		return nil, wrapProtocolError(err)
	}
	if !response.Reply.IsSuccess() {
		return nil, &Error{Kind: RequestFailedKind, Reply: response.Reply}
	}

	return c.conn, nil
}

func (c *Client) negotiateUsernamePassword(ctx context.Context) error {
	req := socks5.UsernamePasswordRequest{
		Username: c.credentials.Username,
		Password: c.credentials.Password,
	}
	if err := req.EncodeTo(c.conn); err != nil {
		return &Error{Kind: IOErrorKind, Cause: err}
	}

	resp, err := socks5.DecodeUsernamePasswordResponse(ctx, c.conn)
	if err != nil {
		return wrapProtocolError(err)
	}
	if resp.Status.IsFailure() {
		return &Error{Kind: AuthenticationFailedKind}
	}
	return nil
}

func (c *Client) offered(method socks5.AuthenticationMethod) bool {
	for _, m := range c.methods {
		if m == method {
			return true
		}
	}
	return false
}
