package catalog

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice converts a decimal price string ("25", "25.5", "25.00") into minor units.
// Signs, exponents and more than two decimals are rejected.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "+-eE") || strings.HasSuffix(s, ".") {
		return 0, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Exponent() < -2 {
		return 0, ErrInvalidPrice
	}
	cents := d.Shift(2).BigInt()
	if !cents.IsInt64() {
		return 0, ErrInvalidPrice
	}
	return cents.Int64(), nil
}

// FormatCents renders minor units as major.minor, e.g. 3500 -> "35.00".
func FormatCents(c int64) string {
	return decimal.New(c, -2).StringFixed(2)
}
