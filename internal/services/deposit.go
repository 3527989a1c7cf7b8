package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/husd-protocol/settlement-api-service/internal/clients/ledger"
	"github.com/husd-protocol/settlement-api-service/internal/db"
	"github.com/husd-protocol/settlement-api-service/internal/types"
	"github.com/husd-protocol/settlement-api-service/internal/utils"
)

type InitDepositResult struct {
	ScheduleID         string `json:"schedule_id"`
	ExpectedHusdAmount string `json:"expected_husd_amount"`
	RateSequence       string `json:"rate_sequence"`
}

type CompleteDepositResult struct {
	ScheduleID string `json:"schedule_id"`
	TxID       string `json:"tx_id"`
}

// expectedHusdForDeposit converts a USDC deposit into the hUSD the user will receive
// at the quoted rate, truncated to hUSD precision so the engine never mints dust.
func (s *Services) expectedHusdForDeposit(sourceAmountUsdc, rate decimal.Decimal) decimal.Decimal {
	husdDecimals := s.cfg.Settlement.HusdDecimals
	return sourceAmountUsdc.DivRound(rate, husdDecimals+4).Truncate(husdDecimals)
}

// InitDeposit starts the two-phase deposit: it locks in the quoted rate, asks the
// ledger for a two-party scheduled transfer (USDC user to treasury, hUSD emissions to
// user) and records a local ticket awaiting the user's co-signature.
func (s *Services) InitDeposit(
	ctx context.Context, userAccountId string, sourceAmountUsdc decimal.Decimal, quotedRate types.ExchangeRate,
) (*InitDepositResult, *types.Error) {
	if sourceAmountUsdc.LessThan(s.cfg.Settlement.MinDeposit()) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("deposit amount %s is below the minimum of %s USDC",
				sourceAmountUsdc.String(), s.cfg.Settlement.MinDeposit().String()),
		)
	}

	current, stale, rateErr := s.checkQuotedRate(ctx, quotedRate)
	if rateErr != nil {
		return nil, rateErr
	}
	if stale {
		recomputed := s.expectedHusdForDeposit(sourceAmountUsdc, current.Rate)
		return nil, newRateConflict(quotedRate, *current, sourceAmountUsdc, recomputed, s.cfg.Ledger.HusdTokenID)
	}

	expectedHusd := s.expectedHusdForDeposit(sourceAmountUsdc, quotedRate.Rate)
	if !expectedHusd.IsPositive() {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			"deposit amount is too small to settle at the quoted rate",
		)
	}

	usdcMinor, err := utils.ToMinorUnits(sourceAmountUsdc, s.cfg.Settlement.UsdcDecimals)
	if err != nil {
		return nil, types.NewError(http.StatusBadRequest, types.ValidationError, err)
	}
	husdMinor, err := utils.ToMinorUnits(expectedHusd, s.cfg.Settlement.HusdDecimals)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}

	legs := []ledger.TransferLeg{
		{AccountID: userAccountId, TokenID: s.cfg.Ledger.UsdcTokenID, AmountMinor: -usdcMinor},
		{AccountID: s.cfg.Ledger.TreasuryAccountID, TokenID: s.cfg.Ledger.UsdcTokenID, AmountMinor: usdcMinor},
		{AccountID: s.cfg.Ledger.EmissionsAccountID, TokenID: s.cfg.Ledger.HusdTokenID, AmountMinor: -husdMinor},
		{AccountID: userAccountId, TokenID: s.cfg.Ledger.HusdTokenID, AmountMinor: husdMinor},
	}
	scheduleId, ledgerErr := s.ledger.CreateScheduledTransfer(ctx, legs, "husd deposit")
	if ledgerErr != nil {
		log.Ctx(ctx).Error().Err(ledgerErr).Str("userAccountId", userAccountId).Msg("failed to create scheduled deposit transfer")
		return nil, ledgerErr
	}

	saveErr := s.DbClient.SaveDepositTicket(
		ctx, scheduleId, userAccountId,
		sourceAmountUsdc.String(), expectedHusd.String(),
		quotedRate.Rate.String(), quotedRate.SequenceNumber,
	)
	if saveErr != nil {
		if db.IsDuplicateKeyError(saveErr) {
			// The ledger assigns schedule ids; a duplicate here means the gateway replayed one.
			log.Ctx(ctx).Error().Str("scheduleId", scheduleId).Msg("duplicate schedule id from ledger gateway")
			return nil, types.NewError(http.StatusConflict, types.Forbidden, saveErr)
		}
		log.Ctx(ctx).Error().Err(saveErr).Str("scheduleId", scheduleId).Msg("failed to save deposit ticket")
		return nil, types.NewInternalServiceError(saveErr)
	}

	s.publishEvent(ctx, types.SettlementEvent{
		Type:          types.EventDepositInitiated,
		Ref:           scheduleId,
		UserAccountID: userAccountId,
		Amount:        sourceAmountUsdc.String(),
		Asset:         s.cfg.Ledger.UsdcTokenID,
		RateSequence:  quotedRate.SequenceNumber,
		At:            s.now(),
	})

	return &InitDepositResult{
		ScheduleID:         scheduleId,
		ExpectedHusdAmount: expectedHusd.String(),
		RateSequence:       quotedRate.SequenceNumber,
	}, nil
}

// CompleteDeposit executes the scheduled transfer once the user's co-signature proof
// arrives. Idempotent on scheduleId: after a first success, repeated calls return the
// cached completion result without a second ledger submission.
func (s *Services) CompleteDeposit(
	ctx context.Context, scheduleId, userSignatureProof string,
) (*CompleteDepositResult, *types.Error) {
	ticket, findErr := s.DbClient.FindDepositTicketByScheduleId(ctx, scheduleId)
	if findErr != nil {
		if db.IsNotFoundError(findErr) {
			log.Ctx(ctx).Warn().Str("scheduleId", scheduleId).Msg("deposit ticket not found for completion")
			return nil, types.NewErrorWithMsg(http.StatusForbidden, types.NotFound, "deposit ticket not found")
		}
		log.Ctx(ctx).Error().Err(findErr).Str("scheduleId", scheduleId).Msg("error while fetching deposit ticket")
		return nil, types.NewInternalServiceError(findErr)
	}

	switch ticket.State {
	case types.DepositCompleted:
		return &CompleteDepositResult{ScheduleID: scheduleId, TxID: ticket.CompletedTxID}, nil
	case types.DepositFailed:
		return nil, types.NewErrorWithMsg(
			http.StatusForbidden, types.Forbidden,
			fmt.Sprintf("deposit already failed: %s", ticket.FailureReason),
		)
	}

	txId, execErr := s.ledger.SignAndExecuteSchedule(ctx, scheduleId, userSignatureProof)
	if execErr != nil {
		if execErr.IsTransient() {
			// The first attempt may still be in flight on the ledger; the ticket stays
			// awaiting signature so a retry on the same scheduleId remains safe.
			return nil, execErr
		}
		s.failDeposit(ctx, ticket.UserAccountID, scheduleId, execErr.Error())
		return nil, execErr
	}

	transitionErr := s.DbClient.TransitionDepositToCompleted(
		ctx, scheduleId, txId, utils.QualifiedStatesToDepositCompleted(),
	)
	if transitionErr != nil {
		if db.IsNotFoundError(transitionErr) {
			// A concurrent completion won the transition; return its cached result.
			completed, reFindErr := s.DbClient.FindDepositTicketByScheduleId(ctx, scheduleId)
			if reFindErr == nil && completed.State == types.DepositCompleted {
				return &CompleteDepositResult{ScheduleID: scheduleId, TxID: completed.CompletedTxID}, nil
			}
		}
		log.Ctx(ctx).Error().Err(transitionErr).Str("scheduleId", scheduleId).Msg("failed to transition deposit to completed")
		return nil, types.NewInternalServiceError(transitionErr)
	}

	s.publishEvent(ctx, types.SettlementEvent{
		Type:          types.EventDepositCompleted,
		Ref:           scheduleId,
		UserAccountID: ticket.UserAccountID,
		Amount:        ticket.ExpectedHusdAmount,
		Asset:         s.cfg.Ledger.HusdTokenID,
		RateSequence:  ticket.RateSequence,
		TxID:          txId,
		At:            s.now(),
	})

	return &CompleteDepositResult{ScheduleID: scheduleId, TxID: txId}, nil
}

func (s *Services) failDeposit(ctx context.Context, userAccountId, scheduleId, reason string) {
	err := s.DbClient.TransitionDepositToFailed(
		ctx, scheduleId, reason, utils.QualifiedStatesToDepositFailed(),
	)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("scheduleId", scheduleId).Msg("failed to transition deposit to failed")
		return
	}
	s.publishEvent(ctx, types.SettlementEvent{
		Type:          types.EventDepositFailed,
		Ref:           scheduleId,
		UserAccountID: userAccountId,
		Reason:        reason,
		At:            s.now(),
	})
}
