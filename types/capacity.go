package types

import (
	"fmt"
	"strings"

	"github.com/nervos-community/light-wallet/errors"
)

// OneCKB is the number of shannons in one CKByte. All arithmetic on
// capacity is exact integer arithmetic over shannons.
const OneCKB uint64 = 100_000_000

const capacityDecimals = 8

// ParseHumanCapacity parses a decimal CKB amount ("102.43") into
// shannons without going through floating point.
func ParseHumanCapacity(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NewInvalidArgumentError("empty capacity")
	}

	whole, frac := s, ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole, frac = s[:idx], s[idx+1:]
	}

	if whole == "" {
		whole = "0"
	}

	if len(frac) > capacityDecimals {
		return 0, errors.NewInvalidArgumentError("capacity %q has more than %d decimal places", s, capacityDecimals)
	}

	// right-pad the fraction to 8 digits
	frac += strings.Repeat("0", capacityDecimals-len(frac))

	var total uint64

	for _, part := range []string{whole, frac} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return 0, errors.NewInvalidArgumentError("invalid capacity %q", s)
			}

			digit := uint64(c - '0')
			if total > (^uint64(0)-digit)/10 {
				return 0, errors.NewInvalidArgumentError("capacity %q overflows", s)
			}

			total = total*10 + digit
		}
	}

	return total, nil
}

// FormatCapacity renders shannons as a decimal CKB amount, trimming
// trailing zeros ("102.43", "500.0").
func FormatCapacity(shannons uint64) string {
	whole := shannons / OneCKB
	frac := shannons % OneCKB

	if frac == 0 {
		return fmt.Sprintf("%d.0", whole)
	}

	fracStr := strings.TrimRight(fmt.Sprintf("%08d", frac), "0")

	return fmt.Sprintf("%d.%s", whole, fracStr)
}

// FeeRate is expressed in shannons per 1000 bytes of transaction weight.
type FeeRate uint64

// Fee returns the fee for a transaction of the given size, rounded up so
// the effective rate never falls below the requested one.
func (r FeeRate) Fee(txSize uint64) uint64 {
	fee := txSize * uint64(r) / 1000
	if fee*1000 < txSize*uint64(r) {
		fee++
	}

	return fee
}
