package socks5

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
)

// ClientGreeting is the client's first message: VER, NMETHODS, METHODS.
type ClientGreeting struct {
	Methods []AuthenticationMethod
}

// EncodeTo writes VER, NMETHODS, METHODS. NMETHODS is len(Methods); the
// caller must keep that slice at 255 entries or fewer.
func (g ClientGreeting) EncodeTo(w io.Writer) error {
	if len(g.Methods) > 255 {
		return malformed(errors.New("too many authentication methods"))
	}
	buf := make([]byte, 2+len(g.Methods))
	buf[0] = Version
	buf[1] = byte(len(g.Methods))
	for i, m := range g.Methods {
		buf[2+i] = byte(m)
	}
	return writeAll(w, buf)
}

// DecodeClientGreeting reads VER, NMETHODS, then exactly NMETHODS method
// bytes. NMETHODS == 0 is legal at the byte level (spec.md §4.3): it
// just means "no methods offered."
func DecodeClientGreeting(ctx context.Context, r io.Reader) (ClientGreeting, error) {
	header := make([]byte, 2)
	if err := readFull(ctx, r, header); err != nil {
		return ClientGreeting{}, err
	}
	if header[0] != Version {
		return ClientGreeting{}, invalidVersion(header[0])
	}

	nMethods := header[1]
	raw := make([]byte, nMethods)
	if err := readFull(ctx, r, raw); err != nil {
		return ClientGreeting{}, err
	}

	methods := make([]AuthenticationMethod, nMethods)
	for i, b := range raw {
		methods[i] = AuthenticationMethod(b)
	}
	return ClientGreeting{Methods: methods}, nil
}

// ServerChoice is the server's response to the greeting: VER, METHOD.
type ServerChoice struct {
	Method AuthenticationMethod
}

func (c ServerChoice) EncodeTo(w io.Writer) error {
	return writeAll(w, []byte{Version, byte(c.Method)})
}

func DecodeServerChoice(ctx context.Context, r io.Reader) (ServerChoice, error) {
	buf := make([]byte, 2)
	if err := readFull(ctx, r, buf); err != nil {
		return ServerChoice{}, err
	}
	if buf[0] != Version {
		return ServerChoice{}, invalidVersion(buf[0])
	}
	return ServerChoice{Method: AuthenticationMethod(buf[1])}, nil
}

// Request is the client's command request: VER, CMD, RSV, ATYP,
// DST.ADDR, DST.PORT.
type Request struct {
	Command CommandType
	Address Address
	Port    uint16
}

func (req Request) EncodeTo(w io.Writer) error {
	if err := writeAll(w, []byte{Version, byte(req.Command), 0x00}); err != nil {
		return err
	}
	if err := req.Address.EncodeTo(w); err != nil {
		return err
	}
	var portBuf [2]byte
	binary.BigEndian.PutUint16(portBuf[:], req.Port)
	return writeAll(w, portBuf[:])
}

func DecodeRequest(ctx context.Context, r io.Reader) (Request, error) {
	head := make([]byte, 3)
	if err := readFull(ctx, r, head); err != nil {
		return Request{}, err
	}
	if head[0] != Version {
		return Request{}, invalidVersion(head[0])
	}
	// head[2] is RSV: consumed, not validated (RFC tolerance).

	addr, err := DecodeAddress(ctx, r)
	if err != nil {
		return Request{}, err
	}

	portBuf := make([]byte, 2)
	if err := readFull(ctx, r, portBuf); err != nil {
		return Request{}, err
	}

	return Request{
		Command: CommandType(head[1]),
		Address: addr,
		Port:    binary.BigEndian.Uint16(portBuf),
	}, nil
}

// Response is the server's reply: VER, REP, RSV, ATYP, BND.ADDR, BND.PORT.
type Response struct {
	Reply   Reply
	Address Address
	Port    uint16
}

// unspecifiedIPv4 is the conventional zeroed bound endpoint address
// used on a failure Response (spec.md §3).
var unspecifiedIPv4 = NewIPv4Address(make([]byte, 4))

// NewErrorResponse builds a failure Response with the zeroed bound
// endpoint conventionally used when a request cannot be fulfilled.
func NewErrorResponse(reply Reply) Response {
	return Response{Reply: reply, Address: unspecifiedIPv4, Port: 0}
}

func (resp Response) EncodeTo(w io.Writer) error {
	if err := writeAll(w, []byte{Version, byte(resp.Reply), 0x00}); err != nil {
		return err
	}
	if err := resp.Address.EncodeTo(w); err != nil {
		return err
	}
	var portBuf [2]byte
	binary.BigEndian.PutUint16(portBuf[:], resp.Port)
	return writeAll(w, portBuf[:])
}

func DecodeResponse(ctx context.Context, r io.Reader) (Response, error) {
	head := make([]byte, 3)
	if err := readFull(ctx, r, head); err != nil {
		return Response{}, err
	}
	if head[0] != Version {
		return Response{}, invalidVersion(head[0])
	}

	addr, err := DecodeAddress(ctx, r)
	if err != nil {
		return Response{}, err
	}

	portBuf := make([]byte, 2)
	if err := readFull(ctx, r, portBuf); err != nil {
		return Response{}, err
	}

	return Response{
		Reply:   Reply(head[1]),
		Address: addr,
		Port:    binary.BigEndian.Uint16(portBuf),
	}, nil
}

// UsernamePasswordRequest is the client's sub-negotiation message: VER,
// ULEN, UNAME, PLEN, PASSWD.
type UsernamePasswordRequest struct {
	Username []byte
	Password []byte
}

func (req UsernamePasswordRequest) EncodeTo(w io.Writer) error {
	if len(req.Username) > 255 || len(req.Password) > 255 {
		return malformed(errors.New("username/password longer than 255 bytes"))
	}
	buf := make([]byte, 0, 2+len(req.Username)+len(req.Password)+1)
	buf = append(buf, AuthVersion, byte(len(req.Username)))
	buf = append(buf, req.Username...)
	buf = append(buf, byte(len(req.Password)))
	buf = append(buf, req.Password...)
	return writeAll(w, buf)
}

func DecodeUsernamePasswordRequest(ctx context.Context, r io.Reader) (UsernamePasswordRequest, error) {
	verByte, err := readByte(ctx, r)
	if err != nil {
		return UsernamePasswordRequest{}, err
	}
	if verByte != AuthVersion {
		return UsernamePasswordRequest{}, invalidVersion(verByte)
	}

	uLen, err := readByte(ctx, r)
	if err != nil {
		return UsernamePasswordRequest{}, err
	}
	username := make([]byte, uLen)
	if err := readFull(ctx, r, username); err != nil {
		return UsernamePasswordRequest{}, err
	}

	pLen, err := readByte(ctx, r)
	if err != nil {
		return UsernamePasswordRequest{}, err
	}
	password := make([]byte, pLen)
	if err := readFull(ctx, r, password); err != nil {
		return UsernamePasswordRequest{}, err
	}

	return UsernamePasswordRequest{Username: username, Password: password}, nil
}

// UsernamePasswordResponse is the server's sub-negotiation reply: VER, STATUS.
type UsernamePasswordResponse struct {
	Status Status
}

func (resp UsernamePasswordResponse) EncodeTo(w io.Writer) error {
	return writeAll(w, []byte{AuthVersion, byte(resp.Status)})
}

func DecodeUsernamePasswordResponse(ctx context.Context, r io.Reader) (UsernamePasswordResponse, error) {
	buf := make([]byte, 2)
	if err := readFull(ctx, r, buf); err != nil {
		return UsernamePasswordResponse{}, err
	}
	if buf[0] != AuthVersion {
		return UsernamePasswordResponse{}, invalidVersion(buf[0])
	}
	return UsernamePasswordResponse{Status: Status(buf[1])}, nil
}
