package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Parse reads a decimal amount from user input. It accepts plain decimal
// notation with an optional sign; anything the decimal parser rejects
// surfaces as ErrInvalidAmount.
func Parse(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return value, nil
}

// Quantize rounds value to the given number of fractional digits using
// round half up: a digit exactly at the midpoint rounds away from zero,
// so 12.345 becomes 12.35 at two places. Rounding is applied
// unconditionally; values already at scale pass through unchanged.
func Quantize(value decimal.Decimal, places int) decimal.Decimal {
	return value.Round(int32(places))
}

// Format renders value with exactly places fractional digits.
func Format(value decimal.Decimal, places int) string {
	return value.StringFixed(int32(places))
}
