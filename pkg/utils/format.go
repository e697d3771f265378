package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatMoney formats a monetary amount with thousands separators and two
// decimals, e.g. 1234567.891 → "1,234,567.89". Amounts are in the
// portfolio's base currency; the engine never converts.
func FormatMoney(amount float64) string {
	negative := amount < 0

	// Round to cents first so 999.999 carries into the integer part.
	cents := math.Round(math.Abs(amount) * 100)
	intPart := int64(cents / 100)
	frac := int64(cents) % 100

	formatted := fmt.Sprintf("%s.%02d", groupThousands(intPart), frac)
	if negative {
		return "-" + formatted
	}
	return formatted
}

// FormatMoneyCompact formats a large amount in compact notation.
// e.g., 1927345 → "1.93M", 1500 → "1.5K"
func FormatMoneyCompact(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	amount = math.Abs(amount)

	switch {
	case amount >= 1e12:
		return fmt.Sprintf("%s%sT", sign, formatWithDecimals(amount/1e12))
	case amount >= 1e9:
		return fmt.Sprintf("%s%sB", sign, formatWithDecimals(amount/1e9))
	case amount >= 1e6:
		return fmt.Sprintf("%s%sM", sign, formatWithDecimals(amount/1e6))
	case amount >= 1e3:
		return fmt.Sprintf("%s%sK", sign, formatWithDecimals(amount/1e3))
	default:
		return fmt.Sprintf("%s%.2f", sign, amount)
	}
}

// FormatPct formats a percentage value, e.g. 2.45 → "2.45%". The input is
// already in percent, not a fraction.
func FormatPct(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatSignedPct formats a percentage with an explicit sign, for figures
// where direction matters, e.g. the gap between two estimates.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatSignedPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// groupThousands formats an integer with comma-separated 3-digit groups.
func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(groups, ",")
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
