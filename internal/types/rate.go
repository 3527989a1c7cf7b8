package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a published USDC-per-hUSD rate. Rates are immutable once published;
// a new rate supersedes the previous one under a new sequence number. The sequence
// number assigned by the rate publication log is the sole identity of a rate version.
type ExchangeRate struct {
	Rate           decimal.Decimal `json:"rate"`
	SequenceNumber string          `json:"sequence_number"`
	PublishedAt    time.Time       `json:"published_at"`
}

// RateConflictDetails is attached to a RATE_CONFLICT error so the caller can decide
// to re-quote and retry or cancel. The engines never silently substitute the current
// rate into an in-flight request.
type RateConflictDetails struct {
	QuotedRate    ExchangeRate `json:"quoted_rate"`
	CurrentRate   ExchangeRate `json:"current_rate"`
	SourceAmount  string       `json:"source_amount"`
	RecomputedOut string       `json:"recomputed_output"`
	OutputAsset   string       `json:"output_asset"`
}

// LiquidityDetails is attached to an INSUFFICIENT_LIQUIDITY error.
type LiquidityDetails struct {
	RequestedUsdc      string `json:"requested_usdc"`
	AvailableLiquidity string `json:"available_liquidity"`
}
