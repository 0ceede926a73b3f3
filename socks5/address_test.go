package socks5

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressRoundTripIPv4(t *testing.T) {
	addr := NewIPv4Address(net.ParseIP("203.0.113.5"))

	var buf bytes.Buffer
	require.NoError(t, addr.EncodeTo(&buf))
	require.Equal(t, addr.Size(), buf.Len())

	decoded, err := DecodeAddress(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, AddressIPv4, decoded.Type)
	require.True(t, decoded.IP.Equal(addr.IP))
}

func TestAddressRoundTripIPv6(t *testing.T) {
	addr := NewIPv6Address(net.ParseIP("2001:db8::1"))

	var buf bytes.Buffer
	require.NoError(t, addr.EncodeTo(&buf))

	decoded, err := DecodeAddress(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, AddressIPv6, decoded.Type)
	require.True(t, decoded.IP.Equal(addr.IP))
}

func TestAddressRoundTripDomainIsByteTransparent(t *testing.T) {
	// Domain bytes are not validated as UTF-8; arbitrary bytes must
	// survive the round trip untouched.
	raw := []byte{0xFF, 0x00, 'h', 'i', 0x01}
	addr, err := NewDomainAddress(raw)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, addr.EncodeTo(&buf))

	decoded, err := DecodeAddress(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, AddressDomain, decoded.Type)
	require.Equal(t, raw, decoded.Domain)
}

func TestNewDomainAddressRejectsOverlong(t *testing.T) {
	_, err := NewDomainAddress(make([]byte, 256))
	require.ErrorIs(t, err, ErrDomainTooLong)
}

func TestDecodeAddressRejectsUnknownTag(t *testing.T) {
	buf := bytes.NewReader([]byte{0x02})
	_, err := DecodeAddress(context.Background(), buf)
	require.True(t, IsMalformed(err))
}
