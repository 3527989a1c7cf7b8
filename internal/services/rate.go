package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// CurrentRate resolves the most recently published exchange rate from the public
// rate log. An unreachable log surfaces as RATE_UNAVAILABLE, which is retryable,
// never as "rate invalid".
func (s *Services) CurrentRate(ctx context.Context) (*types.ExchangeRate, *types.Error) {
	rate, err := s.rateLog.Latest(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to resolve current rate from publication log")
		return nil, err
	}
	return rate, nil
}

const (
	defaultRateHistoryLimit = 20
	maxRateHistoryLimit     = 100
)

// GetRateHistory returns up to limit recently published rates, newest first.
// Callers use it to quote deposits and withdrawals without guessing at the
// current sequence number.
func (s *Services) GetRateHistory(ctx context.Context, limit int) ([]types.ExchangeRate, *types.Error) {
	if limit <= 0 {
		limit = defaultRateHistoryLimit
	}
	if limit > maxRateHistoryLimit {
		limit = maxRateHistoryLimit
	}
	rates, err := s.rateLog.History(ctx, limit)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to fetch rate history from publication log")
		return nil, err
	}
	return rates, nil
}

// checkQuotedRate confirms the quoted rate is still the current one. Sequence
// equality is the sole authoritative check; the numeric tolerance comparison is a
// diagnostic signal only and never gates behavior. The engines turn a stale result
// into a structured RateConflict with their own recomputed output.
func (s *Services) checkQuotedRate(
	ctx context.Context, quoted types.ExchangeRate,
) (current *types.ExchangeRate, stale bool, err *types.Error) {
	current, err = s.CurrentRate(ctx)
	if err != nil {
		return nil, false, err
	}

	if quoted.SequenceNumber == current.SequenceNumber {
		return current, false, nil
	}

	if quoted.Rate.Sub(current.Rate).Abs().LessThan(s.cfg.Settlement.RateTolerance()) {
		// Sequences differ but the numeric values are within tolerance. A republished
		// identical rate still conflicts; log it so a decoupling of sequence and value
		// shows up in diagnostics.
		log.Ctx(ctx).Warn().
			Str("quotedSequence", quoted.SequenceNumber).
			Str("currentSequence", current.SequenceNumber).
			Str("rate", current.Rate.String()).
			Msg("rate sequence changed while numeric rate stayed within tolerance")
	}

	return current, true, nil
}

// newRateConflict builds the structured conflict returned whenever a quoted sequence
// number no longer matches the current one. It carries both rates and the recomputed
// output so the caller can decide to accept-and-retry or cancel; the engines never
// silently substitute the new rate into an in-flight request.
func newRateConflict(
	quoted, current types.ExchangeRate, sourceAmount, recomputedOut decimal.Decimal, outputAsset string,
) *types.Error {
	details := types.RateConflictDetails{
		QuotedRate:    quoted,
		CurrentRate:   current,
		SourceAmount:  sourceAmount.String(),
		RecomputedOut: recomputedOut.String(),
		OutputAsset:   outputAsset,
	}
	return types.NewErrorWithDetails(
		http.StatusConflict, types.RateConflict,
		fmt.Errorf("quoted rate sequence %s is stale, current sequence is %s", quoted.SequenceNumber, current.SequenceNumber),
		details,
	)
}
