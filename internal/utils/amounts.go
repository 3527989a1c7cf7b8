package utils

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Minor-unit conversion feeds directly into ledger transfer instructions, so it must be
// exact for any amount representable within the asset's declared decimals. Amounts with
// more fractional digits than the asset allows are rejected rather than rounded.

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
var minMinorUnits = decimal.NewFromInt(math.MinInt64)

// ToMinorUnits converts an amount to the integer minor-unit representation for an asset
// with the given number of fractional digits.
func ToMinorUnits(amount decimal.Decimal, decimals int32) (int64, error) {
	if decimals < 0 {
		return 0, fmt.Errorf("invalid decimals: %d", decimals)
	}
	if !amount.Equal(amount.Truncate(decimals)) {
		return 0, fmt.Errorf("amount %s has more than %d fractional digits", amount.String(), decimals)
	}
	shifted := amount.Shift(decimals)
	if shifted.GreaterThan(maxMinorUnits) || shifted.LessThan(minMinorUnits) {
		return 0, fmt.Errorf("amount %s overflows minor units at %d decimals", amount.String(), decimals)
	}
	return shifted.IntPart(), nil
}

// FromMinorUnits converts an integer minor-unit value back to a decimal amount.
func FromMinorUnits(units int64, decimals int32) decimal.Decimal {
	return decimal.NewFromInt(units).Shift(-decimals)
}

// ParseAmount parses a positive decimal amount from its string representation.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", amount.String())
	}
	return amount, nil
}
