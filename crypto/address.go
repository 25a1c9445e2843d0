package crypto

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// AddressLength is the size of a raw account address: one network prefix byte
// followed by a 20-byte account hash.
const AddressLength = 21

// DefaultAddressPrefix is the network byte carried by mainnet addresses.
const DefaultAddressPrefix byte = 0x44

var (
	ErrEmptyAddress         = errors.New("address: empty")
	ErrAddressLength        = errors.New("address: invalid length")
	ErrAddressPrefix        = errors.New("address: unexpected network prefix")
	ErrReadableAddressCheck = errors.New("address: checksum mismatch")
)

// ValidateAddress checks the structural rules every on-chain address must
// satisfy: exact length and the expected network prefix byte.
func ValidateAddress(addr []byte, prefix byte) error {
	if len(addr) == 0 {
		return ErrEmptyAddress
	}
	if len(addr) != AddressLength {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrAddressLength, len(addr), AddressLength)
	}
	if addr[0] != prefix {
		return fmt.Errorf("%w: got 0x%02x, want 0x%02x", ErrAddressPrefix, addr[0], prefix)
	}
	return nil
}

// AddressValid reports whether addr passes ValidateAddress.
func AddressValid(addr []byte, prefix byte) bool {
	return ValidateAddress(addr, prefix) == nil
}

// Encode58Check renders a raw address in its human readable base58check form.
// Inputs that are not AddressLength bytes long are rendered without the
// version split so logs never panic on malformed payloads.
func Encode58Check(addr []byte) string {
	if len(addr) != AddressLength {
		return base58.Encode(addr)
	}
	return base58.CheckEncode(addr[1:], addr[0])
}

// Decode58Check parses the base58check form produced by Encode58Check and
// validates the result against the supplied network prefix.
func Decode58Check(readable string, prefix byte) ([]byte, error) {
	payload, version, err := base58.CheckDecode(readable)
	if err != nil {
		if errors.Is(err, base58.ErrChecksum) {
			return nil, ErrReadableAddressCheck
		}
		return nil, fmt.Errorf("address: decode %q: %w", readable, err)
	}
	addr := make([]byte, 0, len(payload)+1)
	addr = append(addr, version)
	addr = append(addr, payload...)
	if err := ValidateAddress(addr, prefix); err != nil {
		return nil, err
	}
	return addr, nil
}
