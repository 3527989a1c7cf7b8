package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int32
		want     int64
		wantErr  bool
	}{
		{name: "whole amount", amount: "100", decimals: 6, want: 100_000_000},
		{name: "fractional amount", amount: "47.975", decimals: 6, want: 47_975_000},
		{name: "full precision", amount: "99.00990099", decimals: 8, want: 9_900_990_099},
		{name: "zero decimals", amount: "42", decimals: 0, want: 42},
		{name: "excess fractional digits", amount: "1.0000001", decimals: 6, wantErr: true},
		{name: "negative decimals", amount: "1", decimals: -1, wantErr: true},
		{name: "overflow", amount: "10000000000000", decimals: 8, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToMinorUnits(decimal.RequireFromString(tc.amount), tc.decimals)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	amounts := []string{"0.000001", "1", "50.5", "47.975", "123456.789012"}
	for _, s := range amounts {
		amount := decimal.RequireFromString(s)
		units, err := ToMinorUnits(amount, 6)
		require.NoError(t, err)
		assert.True(t, FromMinorUnits(units, 6).Equal(amount), "round trip changed %s", s)
	}
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("50.5")
	require.NoError(t, err)
	assert.Equal(t, "50.5", amount.String())

	_, err = ParseAmount("0")
	assert.Error(t, err)

	_, err = ParseAmount("-1")
	assert.Error(t, err)

	_, err = ParseAmount("not-a-number")
	assert.Error(t, err)
}
