package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettlementConfig() SettlementConfig {
	return SettlementConfig{
		InstantFeeRate:          "0.05",
		MinDepositUsdc:          "10",
		StandardLockDuration:    48 * time.Hour,
		TransferLookback:        time.Hour,
		RateToleranceDiagnostic: "0.0001",
		UsdcDecimals:            6,
		HusdDecimals:            8,
		WorkerInterval:          60,
	}
}

func TestSettlementConfigValidate_ParsesDecimalFields(t *testing.T) {
	cfg := validSettlementConfig()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.05", cfg.FeeRate().String())
	assert.Equal(t, "10", cfg.MinDeposit().String())
	assert.Equal(t, "0.0001", cfg.RateTolerance().String())
}

func TestSettlementConfigValidate_DefaultsRateTolerance(t *testing.T) {
	cfg := validSettlementConfig()
	cfg.RateToleranceDiagnostic = ""

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0001", cfg.RateTolerance().String())
}

func TestSettlementConfigValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *SettlementConfig)
	}{
		{
			name:   "fee rate not a decimal",
			mutate: func(cfg *SettlementConfig) { cfg.InstantFeeRate = "five percent" },
		},
		{
			name:   "fee rate negative",
			mutate: func(cfg *SettlementConfig) { cfg.InstantFeeRate = "-0.01" },
		},
		{
			name:   "fee rate at one",
			mutate: func(cfg *SettlementConfig) { cfg.InstantFeeRate = "1" },
		},
		{
			name:   "minimum deposit zero",
			mutate: func(cfg *SettlementConfig) { cfg.MinDepositUsdc = "0" },
		},
		{
			name:   "rate tolerance negative",
			mutate: func(cfg *SettlementConfig) { cfg.RateToleranceDiagnostic = "-0.0001" },
		},
		{
			name:   "lock duration zero",
			mutate: func(cfg *SettlementConfig) { cfg.StandardLockDuration = 0 },
		},
		{
			name:   "transfer lookback zero",
			mutate: func(cfg *SettlementConfig) { cfg.TransferLookback = 0 },
		},
		{
			name:   "usdc decimals negative",
			mutate: func(cfg *SettlementConfig) { cfg.UsdcDecimals = -1 },
		},
		{
			name:   "husd decimals out of range",
			mutate: func(cfg *SettlementConfig) { cfg.HusdDecimals = 19 },
		},
		{
			name:   "worker interval zero",
			mutate: func(cfg *SettlementConfig) { cfg.WorkerInterval = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validSettlementConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
