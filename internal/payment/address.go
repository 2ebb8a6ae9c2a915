package payment

import "regexp"

var evmAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidEVMAddress reports whether s is a 0x-prefixed 40-hex-digit
// Ethereum-style address.
func IsValidEVMAddress(s string) bool {
	return evmAddressPattern.MatchString(s)
}
