package spltoken

import (
	"fmt"
	"math/big"
	"strings"
)

// ToRawAmount converts a decimal token amount (e.g., "1.5") into raw base
// units for a mint with the given decimal count (e.g., 1500000 at 6 decimals).
// The conversion is exact: amounts with more fractional digits than the mint
// supports are rejected rather than rounded.
func ToRawAmount(amount string, decimals uint8) (uint64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(amount, "-") {
		return 0, fmt.Errorf("amount %q is negative", amount)
	}

	whole, frac := amount, ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	// At least one digit somewhere, and digits only: no signs, spaces, or a
	// second decimal point.
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	if whole == "" {
		whole = "0"
	}
	// Trailing zeros in the fraction carry no information.
	frac = strings.TrimRight(frac, "0")
	if len(frac) > int(decimals) {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}

	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	raw, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	if !raw.IsUint64() {
		return 0, fmt.Errorf("amount %q overflows uint64 at %d decimals", amount, decimals)
	}
	return raw.Uint64(), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FromRawAmount converts raw base units back into a decimal string for a mint
// with the given decimal count. Trailing fractional zeros are trimmed, so
// 1000000 at 3 decimals yields "1000" and 1500000 at 6 decimals yields "1.5".
func FromRawAmount(raw uint64, decimals uint8) string {
	s := fmt.Sprintf("%d", raw)
	if decimals == 0 {
		return s
	}
	if len(s) <= int(decimals) {
		s = strings.Repeat("0", int(decimals)-len(s)+1) + s
	}
	split := len(s) - int(decimals)
	whole, frac := s[:split], strings.TrimRight(s[split:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
