package types

import (
	"bytes"
	"encoding/hex"

	"unichain/crypto"
)

// Address is a raw 21-byte account identifier (network prefix + account hash).
type Address [crypto.AddressLength]byte

// BytesToAddress copies b into an Address. Callers are expected to have
// validated the length; shorter inputs are right padded with zeroes.
func BytesToAddress(b []byte) Address {
	var a Address
	copy(a[:], b)
	return a
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// Hex returns the lowercase hex form used in error reasons.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// String renders the base58check readable form.
func (a Address) String() string {
	return crypto.Encode58Check(a[:])
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Compare orders addresses bytewise.
func (a Address) Compare(other Address) int {
	return bytes.Compare(a[:], other[:])
}
