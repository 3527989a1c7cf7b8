package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

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

type MaxInstantWithdrawResult struct {
	MaxHusdAmount      string `json:"max_husd_amount"`
	AvailableLiquidity string `json:"available_liquidity"`
	Rate               string `json:"rate"`
	RateSequence       string `json:"rate_sequence"`
}

type WithdrawResult struct {
	RequestID  string `json:"request_id"`
	AmountHusd string `json:"amount_husd"`
	GrossUsdc  string `json:"gross_usdc"`
	FeeUsdc    string `json:"fee_usdc"`
	NetUsdc    string `json:"net_usdc"`
	TxID       string `json:"tx_id,omitempty"`
}

// instantWithdrawalBreakdown splits an hUSD amount into the USDC amounts the payout
// moves. The fee is taken as the residue of truncating the net payout, so the three
// figures always satisfy net + fee == gross exactly and net is minor-unit representable.
func (s *Services) instantWithdrawalBreakdown(amountHusd, rate decimal.Decimal) (gross, fee, net decimal.Decimal) {
	usdcDecimals := s.cfg.Settlement.UsdcDecimals
	gross = amountHusd.Mul(rate).Truncate(usdcDecimals)
	fee = gross.Mul(s.cfg.Settlement.FeeRate())
	net = gross.Sub(fee).Truncate(usdcDecimals)
	fee = gross.Sub(net)
	return gross, fee, net
}

// GetMaxInstantWithdrawable reports the largest hUSD amount the instant pool can pay
// out right now at the current rate. The figure is advisory; the pool balance can move
// between this read and a subsequent withdrawal.
func (s *Services) GetMaxInstantWithdrawable(ctx context.Context) (*MaxInstantWithdrawResult, *types.Error) {
	rate, rateErr := s.CurrentRate(ctx)
	if rateErr != nil {
		return nil, rateErr
	}

	availableMinor, balErr := s.ledger.GetBalance(
		ctx, s.cfg.Ledger.InstantPoolAccountID, s.cfg.Ledger.UsdcTokenID,
	)
	if balErr != nil {
		return nil, balErr
	}

	available := utils.FromMinorUnits(availableMinor, s.cfg.Settlement.UsdcDecimals)
	maxHusd := available.DivRound(rate.Rate, s.cfg.Settlement.HusdDecimals+4).
		Truncate(s.cfg.Settlement.HusdDecimals)
	if maxHusd.IsNegative() {
		maxHusd = decimal.Zero
	}

	return &MaxInstantWithdrawResult{
		MaxHusdAmount:      maxHusd.String(),
		AvailableLiquidity: available.String(),
		Rate:               rate.Rate.String(),
		RateSequence:       rate.SequenceNumber,
	}, nil
}

// ProcessInstantWithdraw settles an hUSD withdrawal against the instant liquidity pool
// in a single call: the user's hUSD moves to emissions and the net USDC, after the
// protocol fee, moves from the pool to the user atomically.
func (s *Services) ProcessInstantWithdraw(
	ctx context.Context, userAccountId, idempotencyKey string,
	amountHusd decimal.Decimal, quotedRate types.ExchangeRate,
) (*WithdrawResult, *types.Error) {
	current, stale, rateErr := s.checkQuotedRate(ctx, quotedRate)
	if rateErr != nil {
		return nil, rateErr
	}
	if stale {
		_, _, recomputedNet := s.instantWithdrawalBreakdown(amountHusd, current.Rate)
		return nil, newRateConflict(quotedRate, *current, amountHusd, recomputedNet, s.cfg.Ledger.UsdcTokenID)
	}

	gross, fee, net := s.instantWithdrawalBreakdown(amountHusd, quotedRate.Rate)
	if !net.IsPositive() {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			"withdrawal amount is too small to pay out after the fee",
		)
	}

	husdMinor, convErr := utils.ToMinorUnits(amountHusd, s.cfg.Settlement.HusdDecimals)
	if convErr != nil {
		return nil, types.NewError(http.StatusBadRequest, types.ValidationError, convErr)
	}
	grossMinor, convErr := utils.ToMinorUnits(gross, s.cfg.Settlement.UsdcDecimals)
	if convErr != nil {
		return nil, types.NewInternalServiceError(convErr)
	}
	netMinor, convErr := utils.ToMinorUnits(net, s.cfg.Settlement.UsdcDecimals)
	if convErr != nil {
		return nil, types.NewInternalServiceError(convErr)
	}

	liquidityErr := s.checkInstantLiquidity(ctx, gross, grossMinor)
	if liquidityErr != nil {
		return nil, liquidityErr
	}

	requestId := uuid.New().String()
	now := s.now()
	document := &model.WithdrawalDocument{
		RequestID:      requestId,
		UserAccountID:  userAccountId,
		IdempotencyKey: idempotencyKey,
		Type:           types.WithdrawalInstant,
		AmountHusd:     amountHusd.String(),
		GrossUsdc:      gross.String(),
		FeeUsdc:        fee.String(),
		NetUsdc:        net.String(),
		Rate:           quotedRate.Rate.String(),
		RateSequence:   quotedRate.SequenceNumber,
		Status:         types.WithdrawalPending,
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
		log.Ctx(ctx).Error().Err(saveErr).Str("userAccountId", userAccountId).Msg("failed to save instant withdrawal")
		return nil, types.NewInternalServiceError(saveErr)
	}

	legs := []ledger.TransferLeg{
		{AccountID: userAccountId, TokenID: s.cfg.Ledger.HusdTokenID, AmountMinor: -husdMinor},
		{AccountID: s.cfg.Ledger.EmissionsAccountID, TokenID: s.cfg.Ledger.HusdTokenID, AmountMinor: husdMinor},
		{AccountID: s.cfg.Ledger.InstantPoolAccountID, TokenID: s.cfg.Ledger.UsdcTokenID, AmountMinor: -netMinor},
		{AccountID: userAccountId, TokenID: s.cfg.Ledger.UsdcTokenID, AmountMinor: netMinor},
	}
	txId, transferErr := s.ledger.Transfer(ctx, legs, "husd instant withdrawal")
	if transferErr != nil {
		if transferErr.IsTransient() {
			// The ledger call may still land; leave the record pending so support can
			// reconcile rather than reporting a failure that might not be one.
			return nil, transferErr
		}
		s.failWithdrawal(ctx, document, transferErr.Error())
		if isLedgerLiquidityRejection(transferErr) {
			return nil, s.liquidityError(ctx, gross)
		}
		return nil, transferErr
	}

	if transitionErr := s.DbClient.TransitionWithdrawalState(
		ctx, requestId, types.WithdrawalCompleted, utils.QualifiedStatesToWithdrawalCompleted(), txId, "",
	); transitionErr != nil {
		log.Ctx(ctx).Error().Err(transitionErr).Str("requestId", requestId).
			Msg("instant withdrawal paid out but state transition failed")
		return nil, types.NewInternalServiceError(transitionErr)
	}

	s.publishEvent(ctx, types.SettlementEvent{
		Type:           types.EventWithdrawalCompleted,
		Ref:            requestId,
		UserAccountID:  userAccountId,
		WithdrawalType: types.WithdrawalInstant,
		Amount:         net.String(),
		Asset:          s.cfg.Ledger.UsdcTokenID,
		RateSequence:   quotedRate.SequenceNumber,
		TxID:           txId,
		At:             s.now(),
	})

	return &WithdrawResult{
		RequestID:  requestId,
		AmountHusd: amountHusd.String(),
		GrossUsdc:  gross.String(),
		FeeUsdc:    fee.String(),
		NetUsdc:    net.String(),
		TxID:       txId,
	}, nil
}

// checkInstantLiquidity fast-fails a withdrawal whose gross USDC exceeds the pool's
// current balance. The ledger remains the authority; a passing check here can still be
// rejected if the pool drains between the read and the transfer.
func (s *Services) checkInstantLiquidity(ctx context.Context, gross decimal.Decimal, grossMinor int64) *types.Error {
	stopTimer := metrics.StartLedgerCallDurationTimer("get_balance")
	availableMinor, balErr := s.ledger.GetBalance(
		ctx, s.cfg.Ledger.InstantPoolAccountID, s.cfg.Ledger.UsdcTokenID,
	)
	if balErr != nil {
		stopTimer(metrics.Error)
		return balErr
	}
	stopTimer(metrics.Success)
	if grossMinor > availableMinor {
		available := utils.FromMinorUnits(availableMinor, s.cfg.Settlement.UsdcDecimals)
		return types.NewErrorWithDetails(
			http.StatusConflict, types.InsufficientLiquidity,
			errors.New("instant pool cannot cover this withdrawal"),
			types.LiquidityDetails{
				RequestedUsdc:      gross.String(),
				AvailableLiquidity: available.String(),
			},
		)
	}
	return nil
}

// liquidityError rebuilds the liquidity payload after a ledger rejection, when the
// local balance read had already passed.
func (s *Services) liquidityError(ctx context.Context, gross decimal.Decimal) *types.Error {
	available := "unknown"
	availableMinor, balErr := s.ledger.GetBalance(
		ctx, s.cfg.Ledger.InstantPoolAccountID, s.cfg.Ledger.UsdcTokenID,
	)
	if balErr == nil {
		available = utils.FromMinorUnits(availableMinor, s.cfg.Settlement.UsdcDecimals).String()
	}
	return types.NewErrorWithDetails(
		http.StatusConflict, types.InsufficientLiquidity,
		errors.New("instant pool cannot cover this withdrawal"),
		types.LiquidityDetails{
			RequestedUsdc:      gross.String(),
			AvailableLiquidity: available,
		},
	)
}

func (s *Services) failWithdrawal(ctx context.Context, document *model.WithdrawalDocument, reason string) {
	err := s.DbClient.TransitionWithdrawalState(
		ctx, document.RequestID, types.WithdrawalFailed,
		utils.QualifiedStatesToWithdrawalFailed(), "", reason,
	)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("requestId", document.RequestID).
			Msg("failed to transition withdrawal to failed")
		return
	}
	s.publishEvent(ctx, types.SettlementEvent{
		Type:           types.EventWithdrawalFailed,
		Ref:            document.RequestID,
		UserAccountID:  document.UserAccountID,
		WithdrawalType: document.Type,
		Amount:         document.AmountHusd,
		Asset:          s.cfg.Ledger.HusdTokenID,
		Reason:         reason,
		At:             s.now(),
	})
}

// isLedgerLiquidityRejection reports whether a ledger rejection is an insufficient
// balance on the paying pool, as opposed to an invalid request.
func isLedgerLiquidityRejection(err *types.Error) bool {
	return err.ErrorCode == types.LedgerRejected &&
		strings.Contains(strings.ToUpper(err.Error()), "INSUFFICIENT")
}
