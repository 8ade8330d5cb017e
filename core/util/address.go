package util

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// EthereumAddress is a validated wallet address. The zero value is not a
// valid address; construct one with NewEthereumAddressFromString.
type EthereumAddress struct {
	address string
}

// NewEthereumAddressFromString parses a 0x-prefixed 40-character hex string.
func NewEthereumAddressFromString(s string) (EthereumAddress, error) {
	if len(s) != 42 || s[:2] != "0x" {
		return EthereumAddress{}, errors.Errorf("address must be 0x-prefixed 40-character hex string, got %q", s)
	}
	if _, err := hex.DecodeString(s[2:]); err != nil {
		return EthereumAddress{}, errors.Wrap(err, "address contains invalid hex characters")
	}
	return EthereumAddress{address: strings.ToLower(s)}, nil
}

// Address returns the lowercase hex representation, 0x-prefixed.
func (a EthereumAddress) Address() string {
	return a.address
}

// Bytes returns the 20 raw address bytes.
func (a EthereumAddress) Bytes() []byte {
	b, _ := hex.DecodeString(strings.TrimPrefix(a.address, "0x"))
	return b
}

// IsZero reports whether the address is the unset zero value.
func (a EthereumAddress) IsZero() bool {
	return a.address == ""
}

// EthereumAddressesToStrings converts a slice of EthereumAddress to their lowercase hex string representation.
func EthereumAddressesToStrings(addrs []EthereumAddress) []string {
	strs := make([]string, len(addrs))
	for i, a := range addrs {
		strs[i] = a.Address()
	}
	return strs
}
