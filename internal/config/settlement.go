package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementConfig carries the protocol constants of the settlement engine.
type SettlementConfig struct {
	// InstantFeeRate is the fixed protocol fee on instant withdrawals, e.g. "0.05".
	InstantFeeRate string `mapstructure:"instant-fee-rate"`
	// MinDepositUsdc is the minimum deposit threshold, e.g. "10".
	MinDepositUsdc string `mapstructure:"min-deposit-usdc"`
	// StandardLockDuration is the time lock on standard withdrawals (default 48h).
	StandardLockDuration time.Duration `mapstructure:"standard-lock-duration"`
	// TransferLookback bounds how far back the incoming hUSD transfer verification scans.
	TransferLookback time.Duration `mapstructure:"transfer-lookback"`
	// RateToleranceDiagnostic is the numeric rate delta that triggers a diagnostic warning.
	// Sequence equality stays the sole authoritative staleness check.
	RateToleranceDiagnostic string `mapstructure:"rate-tolerance-diagnostic"`
	UsdcDecimals            int32  `mapstructure:"usdc-decimals"`
	HusdDecimals            int32  `mapstructure:"husd-decimals"`
	// WorkerInterval drives the pending-withdrawal reconciliation cron, in seconds.
	WorkerInterval int `mapstructure:"worker-interval"`

	feeRate      decimal.Decimal
	minDeposit   decimal.Decimal
	rateToleranc decimal.Decimal
}

func (cfg *SettlementConfig) Validate() error {
	feeRate, err := decimal.NewFromString(cfg.InstantFeeRate)
	if err != nil {
		return fmt.Errorf("invalid instant fee rate: %w", err)
	}
	if feeRate.IsNegative() || feeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("instant fee rate must be in [0, 1), got %s", feeRate.String())
	}
	cfg.feeRate = feeRate

	minDeposit, err := decimal.NewFromString(cfg.MinDepositUsdc)
	if err != nil {
		return fmt.Errorf("invalid minimum deposit: %w", err)
	}
	if !minDeposit.IsPositive() {
		return fmt.Errorf("minimum deposit must be positive, got %s", minDeposit.String())
	}
	cfg.minDeposit = minDeposit

	if cfg.RateToleranceDiagnostic == "" {
		cfg.RateToleranceDiagnostic = "0.0001"
	}
	tolerance, err := decimal.NewFromString(cfg.RateToleranceDiagnostic)
	if err != nil {
		return fmt.Errorf("invalid rate tolerance: %w", err)
	}
	if !tolerance.IsPositive() {
		return fmt.Errorf("rate tolerance must be positive, got %s", tolerance.String())
	}
	cfg.rateToleranc = tolerance

	if cfg.StandardLockDuration <= 0 {
		return fmt.Errorf("standard lock duration must be positive")
	}

	if cfg.TransferLookback <= 0 {
		return fmt.Errorf("transfer lookback must be positive")
	}

	if cfg.UsdcDecimals < 0 || cfg.UsdcDecimals > 18 {
		return fmt.Errorf("usdc decimals must be in [0, 18], got %d", cfg.UsdcDecimals)
	}

	if cfg.HusdDecimals < 0 || cfg.HusdDecimals > 18 {
		return fmt.Errorf("husd decimals must be in [0, 18], got %d", cfg.HusdDecimals)
	}

	if cfg.WorkerInterval <= 0 {
		return fmt.Errorf("worker interval must be a positive integer in seconds")
	}

	return nil
}

// FeeRate returns the parsed instant withdrawal fee rate. Validate must have run first.
func (cfg *SettlementConfig) FeeRate() decimal.Decimal {
	return cfg.feeRate
}

// MinDeposit returns the parsed minimum deposit threshold. Validate must have run first.
func (cfg *SettlementConfig) MinDeposit() decimal.Decimal {
	return cfg.minDeposit
}

// RateTolerance returns the parsed diagnostic rate tolerance. Validate must have run first.
func (cfg *SettlementConfig) RateTolerance() decimal.Decimal {
	return cfg.rateToleranc
}
