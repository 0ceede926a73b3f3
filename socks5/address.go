package socks5

import (
	"context"
	"errors"
	"io"
	"net"
)

// ErrDomainTooLong is returned by NewDomainAddress and Address.EncodeTo
// when a domain name is longer than 255 bytes and therefore cannot be
// length-prefixed by a single byte. The codec rejects rather than
// truncates or saturates, per spec.md §4.2's recommended behaviour.
var ErrDomainTooLong = errors.New("socks5: domain name longer than 255 bytes")

// Address is a tagged union of the three SOCKS5 address forms. The
// zero value is not meaningful; construct one with NewIPv4Address,
// NewIPv6Address, or NewDomainAddress.
type Address struct {
	Type   AddressType
	IP     net.IP // 4 bytes for AddressIPv4, 16 bytes for AddressIPv6
	Domain []byte // opaque, byte-transparent; only set for AddressDomain
}

// NewIPv4Address builds an Address from a 4-byte IPv4 address.
func NewIPv4Address(ip net.IP) Address {
	return Address{Type: AddressIPv4, IP: ip.To4()}
}

// NewIPv6Address builds an Address from a 16-byte IPv6 address.
func NewIPv6Address(ip net.IP) Address {
	return Address{Type: AddressIPv6, IP: ip.To16()}
}

// NewDomainAddress builds an Address from an opaque domain byte string.
// The codec never validates UTF-8; the caller may pass raw bytes. It
// returns ErrDomainTooLong if domain is longer than 255 bytes.
func NewDomainAddress(domain []byte) (Address, error) {
	if len(domain) > 255 {
		return Address{}, ErrDomainTooLong
	}
	return Address{Type: AddressDomain, Domain: domain}, nil
}

// String renders the address the way net.JoinHostPort expects its host
// argument: dotted-quad, bracket-free IPv6 literal, or the raw domain
// bytes converted byte for byte (no UTF-8 decoding or validation).
func (a Address) String() string {
	switch a.Type {
	case AddressDomain:
		return string(a.Domain)
	default:
		return a.IP.String()
	}
}

// EncodeTo writes the address type tag followed by the address payload:
// 4 raw octets for IPv4, a length byte then the domain bytes for
// DOMAIN_NAME, 16 raw octets for IPv6.
func (a Address) EncodeTo(w io.Writer) error {
	switch a.Type {
	case AddressIPv4:
		if err := writeAll(w, []byte{byte(AddressIPv4)}); err != nil {
			return err
		}
		return writeAll(w, a.IP.To4())
	case AddressIPv6:
		if err := writeAll(w, []byte{byte(AddressIPv6)}); err != nil {
			return err
		}
		return writeAll(w, a.IP.To16())
	case AddressDomain:
		if len(a.Domain) > 255 {
			return ErrDomainTooLong
		}
		if err := writeAll(w, []byte{byte(AddressDomain), byte(len(a.Domain))}); err != nil {
			return err
		}
		return writeAll(w, a.Domain)
	default:
		return malformed(errors.New("unknown address type"))
	}
}

// DecodeAddress reads the tag byte and dispatches on IP_V4, DOMAIN_NAME,
// IP_V6. Any other tag yields a MalformedMessageKind ConversionError.
func DecodeAddress(ctx context.Context, r io.Reader) (Address, error) {
	tag, err := readByte(ctx, r)
	if err != nil {
		return Address{}, err
	}

	switch AddressType(tag) {
	case AddressIPv4:
		buf := make([]byte, net.IPv4len)
		if err := readFull(ctx, r, buf); err != nil {
			return Address{}, err
		}
		return Address{Type: AddressIPv4, IP: net.IP(buf)}, nil
	case AddressIPv6:
		buf := make([]byte, net.IPv6len)
		if err := readFull(ctx, r, buf); err != nil {
			return Address{}, err
		}
		return Address{Type: AddressIPv6, IP: net.IP(buf)}, nil
	case AddressDomain:
		length, err := readByte(ctx, r)
		if err != nil {
			return Address{}, err
		}
		buf := make([]byte, length)
		if err := readFull(ctx, r, buf); err != nil {
			return Address{}, err
		}
		return Address{Type: AddressDomain, Domain: buf}, nil
	default:
		return Address{}, malformed(errors.New("unrecognised address type tag"))
	}
}

// Size returns the number of bytes EncodeTo would write.
func (a Address) Size() int {
	switch a.Type {
	case AddressIPv4:
		return 1 + net.IPv4len
	case AddressIPv6:
		return 1 + net.IPv6len
	case AddressDomain:
		return 1 + 1 + len(a.Domain)
	default:
		return 1
	}
}
