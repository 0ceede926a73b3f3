package server

import (
	"errors"
	"fmt"

	"github.com/loncothad/socker/socks5"
)

// ErrorKind classifies an Error returned from ServeClient.
type ErrorKind int

const (
	// IOErrorKind wraps a transport-level failure.
	IOErrorKind ErrorKind = iota
	// ProtocolErrorKind means the client sent bytes that didn't decode,
	// or used an unexpected protocol version.
	ProtocolErrorKind
	// NoAcceptableAuthMethodKind means none of the client's offered
	// methods matched what this server is configured to accept.
	NoAcceptableAuthMethodKind
	// AuthenticationFailedKind means the username/password
	// sub-negotiation did not match a registered account.
	AuthenticationFailedKind
	// CommandNotSupportedKind means the client requested BIND or
	// UDP_ASSOCIATE, neither of which this server implements.
	CommandNotSupportedKind
	// RequestFailedKind means the requested CONNECT could not be
	// completed (dial failure).
	RequestFailedKind
)

// Error is returned by Server.ServeClient.
type Error struct {
	Kind    ErrorKind
	Cause   error
	Command socks5.CommandType
}

func (e *Error) Error() string {
	switch e.Kind {
	case NoAcceptableAuthMethodKind:
		return "server: no acceptable authentication method offered"
	case AuthenticationFailedKind:
		return "server: username/password authentication failed"
	case CommandNotSupportedKind:
		return fmt.Sprintf("server: unsupported command %s", e.Command)
	case RequestFailedKind:
		return fmt.Sprintf("server: request failed: %v", e.Cause)
	case ProtocolErrorKind:
		return fmt.Sprintf("server: protocol error: %v", e.Cause)
	default:
		return fmt.Sprintf("server: io error: %v", e.Cause)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func wrapProtocolError(err error) *Error {
	var ce *socks5.ConversionError
	if errors.As(err, &ce) && ce.Kind != socks5.IOErrorKind {
		return &Error{Kind: ProtocolErrorKind, Cause: ce}
	}
	return &Error{Kind: IOErrorKind, Cause: err}
}
