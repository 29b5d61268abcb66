package wallet

import (
	"fmt"
	"strings"

	"github.com/layer-3/nearstore/core"
	"github.com/shopspring/decimal"
)

// NominationExp is the number of yoctoNEAR decimals in one NEAR
const NominationExp = 24

// FormatAmount renders a yoctoNEAR integer string as NEAR with at most
// fracDigits fraction digits, rounding half up and grouping the whole part
// with commas.
func FormatAmount(yocto string, fracDigits int) (string, error) {
	if fracDigits < 0 || fracDigits > NominationExp {
		return "", fmt.Errorf("%w: fraction digits %d out of range", core.ErrInvalidAmount, fracDigits)
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(yocto))
	if err != nil || !balance.IsInteger() || balance.IsNegative() {
		return "", fmt.Errorf("%w: %q is not a yoctoNEAR amount", core.ErrInvalidAmount, yocto)
	}

	if fracDigits != NominationExp {
		if roundingExp := NominationExp - fracDigits - 1; roundingExp > 0 {
			balance = balance.Add(decimal.New(5, int32(roundingExp)))
		}
	}

	s := balance.String()
	whole := "0"
	if len(s) > NominationExp {
		whole = s[:len(s)-NominationExp]
	}
	frac := s
	if len(s) > NominationExp {
		frac = s[len(s)-NominationExp:]
	}
	frac = strings.Repeat("0", NominationExp-len(frac)) + frac

	return trimTrailingZeroes(formatWithCommas(whole) + "." + frac[:fracDigits]), nil
}

// ParseAmount converts a human NEAR amount ("1,000.5") into a yoctoNEAR integer string
func ParseAmount(amount string) (string, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(amount, ",", ""))
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty amount", core.ErrInvalidAmount)
	}

	parts := strings.Split(cleaned, ".")
	whole := parts[0]
	frac := ""
	if len(parts) > 1 {
		frac = parts[1]
	}
	if len(parts) > 2 || len(frac) > NominationExp || !isDigits(whole) || !isDigits(frac) {
		return "", fmt.Errorf("%w: cannot parse '%s' as NEAR amount", core.ErrInvalidAmount, amount)
	}

	return trimLeadingZeroes(whole + frac + strings.Repeat("0", NominationExp-len(frac))), nil
}

func formatWithCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func trimTrailingZeroes(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}

func trimLeadingZeroes(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
