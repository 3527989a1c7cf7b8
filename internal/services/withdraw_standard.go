package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/husd-protocol/settlement-api-service/internal/clients/ledger"
	"github.com/husd-protocol/settlement-api-service/internal/db"
	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/observability/metrics"
	"github.com/husd-protocol/settlement-api-service/internal/types"
	"github.com/husd-protocol/settlement-api-service/internal/utils"
)

const auditRecordWithdrawRequest = "withdraw_request"

type StandardWithdrawResult struct {
	RequestID  string    `json:"request_id"`
	AmountHusd string    `json:"amount_husd"`
	NetUsdc    string    `json:"net_usdc"`
	UnlockAt   time.Time `json:"unlock_at"`
}

// RequestStandardWithdraw records a fee-free withdrawal that pays out after the time
// lock. The user must already have transferred the hUSD to the emissions account; the
// request is accepted only after that incoming transfer is verified on the ledger.
func (s *Services) RequestStandardWithdraw(
	ctx context.Context, userAccountId, idempotencyKey string,
	amountHusd decimal.Decimal, quotedRate types.ExchangeRate,
) (*StandardWithdrawResult, *types.Error) {
	current, stale, rateErr := s.checkQuotedRate(ctx, quotedRate)
	if rateErr != nil {
		return nil, rateErr
	}
	if stale {
		recomputed := amountHusd.Mul(current.Rate).Truncate(s.cfg.Settlement.UsdcDecimals)
		return nil, newRateConflict(quotedRate, *current, amountHusd, recomputed, s.cfg.Ledger.UsdcTokenID)
	}

	gross := amountHusd.Mul(quotedRate.Rate).Truncate(s.cfg.Settlement.UsdcDecimals)
	if !gross.IsPositive() {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			"withdrawal amount is too small to settle at the quoted rate",
		)
	}

	husdMinor, convErr := utils.ToMinorUnits(amountHusd, s.cfg.Settlement.HusdDecimals)
	if convErr != nil {
		return nil, types.NewError(http.StatusBadRequest, types.ValidationError, convErr)
	}

	now := s.now()
	since := now.Add(-s.cfg.Settlement.TransferLookback)
	verified, verifyErr := s.ledger.VerifyIncomingTransfer(
		ctx, userAccountId, s.cfg.Ledger.EmissionsAccountID,
		s.cfg.Ledger.HusdTokenID, husdMinor, since,
	)
	if verifyErr != nil {
		return nil, verifyErr
	}
	if !verified {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("no incoming hUSD transfer of %s found from %s within the lookback window",
				amountHusd.String(), userAccountId),
		)
	}

	requestId := uuid.New().String()
	unlockAt := now.Add(s.cfg.Settlement.StandardLockDuration)
	document := &model.WithdrawalDocument{
		RequestID:      requestId,
		UserAccountID:  userAccountId,
		IdempotencyKey: idempotencyKey,
		Type:           types.WithdrawalStandard,
		AmountHusd:     amountHusd.String(),
		GrossUsdc:      gross.String(),
		FeeUsdc:        decimal.Zero.String(),
		NetUsdc:        gross.String(),
		Rate:           quotedRate.Rate.String(),
		RateSequence:   quotedRate.SequenceNumber,
		Status:         types.WithdrawalPending,
		UnlockAt:       &unlockAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if saveErr := s.DbClient.SaveWithdrawal(ctx, document); saveErr != nil {
		if db.IsDuplicateKeyError(saveErr) {
			return nil, types.NewErrorWithMsg(
				http.StatusForbidden, types.Forbidden,
				"a withdrawal with this idempotency key already exists for this account",
			)
		}
		log.Ctx(ctx).Error().Err(saveErr).Str("userAccountId", userAccountId).Msg("failed to save standard withdrawal")
		return nil, types.NewInternalServiceError(saveErr)
	}

	// The audit trail is best effort at request time; the event bus mirror retries
	// coverage via the queue, so a publish failure must not fail the request.
	if _, auditErr := s.auditLog.Publish(ctx, auditRecordWithdrawRequest, document); auditErr != nil {
		log.Ctx(ctx).Warn().Err(auditErr).Str("requestId", requestId).Msg("failed to publish withdraw request audit record")
	}

	s.publishEvent(ctx, types.SettlementEvent{
		Type:           types.EventWithdrawalRequested,
		Ref:            requestId,
		UserAccountID:  userAccountId,
		WithdrawalType: types.WithdrawalStandard,
		Amount:         amountHusd.String(),
		Asset:          s.cfg.Ledger.HusdTokenID,
		RateSequence:   quotedRate.SequenceNumber,
		At:             now,
	})

	return &StandardWithdrawResult{
		RequestID:  requestId,
		AmountHusd: amountHusd.String(),
		NetUsdc:    gross.String(),
		UnlockAt:   unlockAt,
	}, nil
}

// ProcessPendingWithdrawals settles every standard withdrawal whose time lock has
// passed. Each record is settled independently; one failure never blocks the rest of
// the batch.
func (s *Services) ProcessPendingWithdrawals(ctx context.Context) (*types.ProcessPendingResult, *types.Error) {
	now := s.now()
	pending, findErr := s.DbClient.FindProcessableWithdrawals(ctx, now)
	if findErr != nil {
		log.Ctx(ctx).Error().Err(findErr).Msg("failed to fetch processable withdrawals")
		return nil, types.NewInternalServiceError(findErr)
	}

	result := &types.ProcessPendingResult{}
	for i := range pending {
		record := pending[i]
		result.Processed++
		if err := s.settlePendingWithdrawal(ctx, &record); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", record.RequestID, err.Error()))
			continue
		}
		result.Completed++
	}

	metrics.RecordWithdrawalBatchOutcome("completed", result.Completed)
	metrics.RecordWithdrawalBatchOutcome("failed", result.Failed)
	if result.Processed > 0 {
		log.Ctx(ctx).Info().
			Int("processed", result.Processed).
			Int("completed", result.Completed).
			Int("failed", result.Failed).
			Msg("processed pending withdrawals")
	}
	return result, nil
}

// settlePendingWithdrawal pays out one unlocked standard withdrawal. On a definitive
// ledger rejection the user's hUSD is returned first; the record only transitions to
// failed once that compensating transfer has confirmed on the ledger.
func (s *Services) settlePendingWithdrawal(ctx context.Context, record *model.WithdrawalDocument) *types.Error {
	// The query already filters on unlock_at, but funds must never move early even
	// if a caller hands this a record the filter did not produce.
	if record.UnlockAt == nil || record.UnlockAt.After(s.now()) {
		return types.NewErrorWithMsg(
			http.StatusForbidden, types.Forbidden,
			fmt.Sprintf("withdrawal %s is still time locked", record.RequestID),
		)
	}

	netUsdc, parseErr := decimal.NewFromString(record.NetUsdc)
	if parseErr != nil {
		return types.NewInternalServiceError(fmt.Errorf("corrupt net amount on withdrawal %s: %w", record.RequestID, parseErr))
	}
	netMinor, convErr := utils.ToMinorUnits(netUsdc, s.cfg.Settlement.UsdcDecimals)
	if convErr != nil {
		return types.NewInternalServiceError(convErr)
	}

	legs := []ledger.TransferLeg{
		{AccountID: s.cfg.Ledger.StandardPoolAccountID, TokenID: s.cfg.Ledger.UsdcTokenID, AmountMinor: -netMinor},
		{AccountID: record.UserAccountID, TokenID: s.cfg.Ledger.UsdcTokenID, AmountMinor: netMinor},
	}
	txId, transferErr := s.ledger.Transfer(ctx, legs, "husd standard withdrawal payout")
	if transferErr != nil {
		if transferErr.IsTransient() {
			// Leave the record pending; the next worker run retries the payout.
			log.Ctx(ctx).Warn().Err(transferErr).Str("requestId", record.RequestID).
				Msg("transient ledger error during withdrawal payout, will retry")
			return transferErr
		}
		return s.compensateWithdrawal(ctx, record, transferErr)
	}

	if transitionErr := s.DbClient.TransitionWithdrawalState(
		ctx, record.RequestID, types.WithdrawalCompleted,
		utils.QualifiedStatesToWithdrawalCompleted(), txId, "",
	); transitionErr != nil {
		if db.IsNotFoundError(transitionErr) {
			// Already settled by a concurrent run.
			return nil
		}
		log.Ctx(ctx).Error().Err(transitionErr).Str("requestId", record.RequestID).
			Msg("withdrawal paid out but state transition failed")
		return types.NewInternalServiceError(transitionErr)
	}

	s.publishEvent(ctx, types.SettlementEvent{
		Type:           types.EventWithdrawalCompleted,
		Ref:            record.RequestID,
		UserAccountID:  record.UserAccountID,
		WithdrawalType: types.WithdrawalStandard,
		Amount:         record.NetUsdc,
		Asset:          s.cfg.Ledger.UsdcTokenID,
		RateSequence:   record.RateSequence,
		TxID:           txId,
		At:             s.now(),
	})
	return nil
}

// compensateWithdrawal returns the escrowed hUSD to the user after a definitive payout
// rejection. The failure is only recorded, and the failure event only published, once
// the return transfer has confirmed; if the return itself fails the record stays
// pending so the next worker run retries the whole settlement.
func (s *Services) compensateWithdrawal(
	ctx context.Context, record *model.WithdrawalDocument, payoutErr *types.Error,
) *types.Error {
	amountHusd, parseErr := decimal.NewFromString(record.AmountHusd)
	if parseErr != nil {
		return types.NewInternalServiceError(fmt.Errorf("corrupt amount on withdrawal %s: %w", record.RequestID, parseErr))
	}
	husdMinor, convErr := utils.ToMinorUnits(amountHusd, s.cfg.Settlement.HusdDecimals)
	if convErr != nil {
		return types.NewInternalServiceError(convErr)
	}

	legs := []ledger.TransferLeg{
		{AccountID: s.cfg.Ledger.EmissionsAccountID, TokenID: s.cfg.Ledger.HusdTokenID, AmountMinor: -husdMinor},
		{AccountID: record.UserAccountID, TokenID: s.cfg.Ledger.HusdTokenID, AmountMinor: husdMinor},
	}
	if _, returnErr := s.ledger.Transfer(ctx, legs, "husd standard withdrawal return"); returnErr != nil {
		log.Ctx(ctx).Error().Err(returnErr).Str("requestId", record.RequestID).
			Msg("failed to return hUSD after rejected payout, record stays pending for retry")
		return returnErr
	}

	reason := fmt.Sprintf("payout rejected: %s", payoutErr.Error())
	if transitionErr := s.DbClient.TransitionWithdrawalState(
		ctx, record.RequestID, types.WithdrawalFailed,
		utils.QualifiedStatesToWithdrawalFailed(), "", reason,
	); transitionErr != nil && !db.IsNotFoundError(transitionErr) {
		log.Ctx(ctx).Error().Err(transitionErr).Str("requestId", record.RequestID).
			Msg("hUSD returned but state transition failed")
		return types.NewInternalServiceError(transitionErr)
	}

	s.publishEvent(ctx, types.SettlementEvent{
		Type:           types.EventWithdrawalFailed,
		Ref:            record.RequestID,
		UserAccountID:  record.UserAccountID,
		WithdrawalType: types.WithdrawalStandard,
		Amount:         record.AmountHusd,
		Asset:          s.cfg.Ledger.HusdTokenID,
		Reason:         reason,
		At:             s.now(),
	})
	return payoutErr
}
