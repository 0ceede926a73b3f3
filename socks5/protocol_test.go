package socks5

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusPartitionEquality(t *testing.T) {
	require.True(t, StatusFailure.Equal(Status(0xFF)))
	require.True(t, StatusSuccess.Equal(Status(0x00)))
	require.False(t, StatusSuccess.Equal(StatusFailure))
}

func TestStatusIsSuccessIsFailure(t *testing.T) {
	require.True(t, StatusSuccess.IsSuccess())
	require.False(t, StatusSuccess.IsFailure())

	require.True(t, Status(0x02).IsFailure())
	require.False(t, Status(0x02).IsSuccess())
}

func TestAuthenticationMethodUnassignedRanges(t *testing.T) {
	require.True(t, AuthenticationMethod(0x04).IsIANAUnassigned())
	require.True(t, AuthenticationMethod(0x50).IsIANAUnassigned())
	require.False(t, AuthenticationMethod(0x02).IsIANAUnassigned())

	require.True(t, AuthenticationMethod(0x80).IsReservedForPrivateUse())
	require.True(t, AuthenticationMethod(0xFE).IsReservedForPrivateUse())
	require.False(t, AuthenticationMethod(0xFF).IsReservedForPrivateUse())
}

func TestReplyIsSuccessIsUnassigned(t *testing.T) {
	require.True(t, ReplySuccess.IsSuccess())
	require.False(t, ReplyHostUnreachable.IsSuccess())

	require.False(t, ReplyAddressTypeNotSupported.IsUnassigned())
	require.True(t, Reply(0x09).IsUnassigned())
}

func TestUnknownByteValuesRoundTripThroughString(t *testing.T) {
	// Unknown/reserved byte values are never rejected by the newtypes
	// themselves - they just fall through to the hex fallback.
	require.Equal(t, "0x09", Reply(0x09).String())
	require.Equal(t, "0x50", AuthenticationMethod(0x50).String())
	require.Equal(t, "0x02", AddressType(0x02).String())
}
