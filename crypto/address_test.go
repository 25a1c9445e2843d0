package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func testAddress(fill byte) []byte {
	addr := bytes.Repeat([]byte{fill}, AddressLength)
	addr[0] = DefaultAddressPrefix
	return addr
}

func TestValidateAddress(t *testing.T) {
	require.NoError(t, ValidateAddress(testAddress(0x11), DefaultAddressPrefix))
	require.True(t, AddressValid(testAddress(0x11), DefaultAddressPrefix))

	require.ErrorIs(t, ValidateAddress(nil, DefaultAddressPrefix), ErrEmptyAddress)
	require.ErrorIs(t, ValidateAddress(testAddress(0x11)[:20], DefaultAddressPrefix), ErrAddressLength)

	wrongPrefix := testAddress(0x11)
	wrongPrefix[0] = 0x41
	require.ErrorIs(t, ValidateAddress(wrongPrefix, DefaultAddressPrefix), ErrAddressPrefix)
	require.True(t, AddressValid(wrongPrefix, 0x41))
}

func TestEncode58CheckRoundTrip(t *testing.T) {
	addr := testAddress(0x7a)
	readable := Encode58Check(addr)
	require.NotEmpty(t, readable)

	decoded, err := Decode58Check(readable, DefaultAddressPrefix)
	require.NoError(t, err)
	require.Equal(t, addr, decoded)

	_, err = Decode58Check(readable, 0x41)
	require.ErrorIs(t, err, ErrAddressPrefix)
}

func TestDecode58CheckRejectsCorruptChecksum(t *testing.T) {
	readable := []byte(Encode58Check(testAddress(0x7a)))
	last := readable[len(readable)-1]
	if last == '2' {
		readable[len(readable)-1] = '3'
	} else {
		readable[len(readable)-1] = '2'
	}
	_, err := Decode58Check(string(readable), DefaultAddressPrefix)
	require.ErrorIs(t, err, ErrReadableAddressCheck)
}

func TestEncode58CheckMalformedLength(t *testing.T) {
	require.NotPanics(t, func() { _ = Encode58Check([]byte{0x01, 0x02}) })
	require.Equal(t, "", Encode58Check(nil))
}
