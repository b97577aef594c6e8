// Package ethaddr normalizes wallet addresses so that the metadata store and
// request handling always compare the same canonical form.
package ethaddr

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Normalize returns the lowercase hex form of an address string. The ledger
// reports checksummed addresses while clients send arbitrary casing, so every
// stored or compared address goes through here first.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// NormalizeAddress lowercases a ledger address for storage and comparison.
func NormalizeAddress(address common.Address) string {
	return strings.ToLower(address.Hex())
}

// Equal reports whether two address strings refer to the same wallet,
// ignoring case.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// IsValid reports whether the string is a well-formed 20-byte hex address.
func IsValid(address string) bool {
	return common.IsHexAddress(strings.TrimSpace(address))
}

// Parse converts a validated address string into its ledger representation.
func Parse(address string) common.Address {
	return common.HexToAddress(strings.TrimSpace(address))
}

// IsZero reports whether the address is the zero address, which the ledger
// uses for unset driver slots.
func IsZero(address common.Address) bool {
	return address == (common.Address{})
}
