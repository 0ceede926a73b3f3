package client

import (
	"errors"
	"fmt"

	"github.com/loncothad/socker/socks5"
)

// ErrCredentialsTooLong is returned by NewCredentials when either field
// would overflow the protocol's single-byte length prefix.
var ErrCredentialsTooLong = errors.New("client: username or password longer than 255 bytes")

// ErrorKind classifies an Error returned from ConnectToTarget.
type ErrorKind int

const (
	// IOErrorKind wraps a transport-level failure.
	IOErrorKind ErrorKind = iota
	// ProtocolErrorKind means the peer sent bytes that didn't decode,
	// or used an unexpected protocol version.
	ProtocolErrorKind
	// UnsupportedAuthMethodKind means the server chose a method the
	// client didn't offer, or offered no usable credentials for it.
	UnsupportedAuthMethodKind
	// AuthenticationFailedKind means the server rejected the
	// username/password sub-negotiation.
	AuthenticationFailedKind
	// RequestFailedKind means the server's reply to the CONNECT
	// request was anything other than SUCCESS.
	RequestFailedKind
)

// Error is returned by Client.ConnectToTarget. Kind identifies the
// failure category; the remaining fields are populated only when
// relevant to that Kind.
type Error struct {
	Kind   ErrorKind
	Cause  error
	Method socks5.AuthenticationMethod
	Reply  socks5.Reply
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnsupportedAuthMethodKind:
		return fmt.Sprintf("client: server selected unsupported authentication method %s", e.Method)
	case AuthenticationFailedKind:
		return "client: username/password authentication rejected"
	case RequestFailedKind:
		return fmt.Sprintf("client: request failed: %s", e.Reply)
	case ProtocolErrorKind:
		return fmt.Sprintf("client: protocol error: %v", e.Cause)
	default:
		return fmt.Sprintf("client: io error: %v", e.Cause)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// wrapProtocolError classifies an error coming out of the socks5
// codec as either an IO failure or a protocol-level one.
func wrapProtocolError(err error) *Error {
	var ce *socks5.ConversionError
	if errors.As(err, &ce) && ce.Kind != socks5.IOErrorKind {
		return &Error{Kind: ProtocolErrorKind, Cause: ce}
	}
	return &Error{Kind: IOErrorKind, Cause: err}
}
