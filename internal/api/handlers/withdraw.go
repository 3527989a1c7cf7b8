package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/husd-protocol/settlement-api-service/internal/types"
	"github.com/husd-protocol/settlement-api-service/internal/utils"
)

type WithdrawRequestPayload struct {
	UserAccountID  string `json:"user_account_id"`
	IdempotencyKey string `json:"idempotency_key"`
	AmountHusd     string `json:"amount_husd"`
	QuotedRate     string `json:"quoted_rate"`
	RateSequence   string `json:"rate_sequence"`
}

func parseWithdrawRequestPayload(request *http.Request) (
	*WithdrawRequestPayload, decimal.Decimal, *types.ExchangeRate, *types.Error,
) {
	payload := &WithdrawRequestPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return nil, decimal.Zero, nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if !utils.IsValidAccountID(payload.UserAccountID) {
		return nil, decimal.Zero, nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid user account id",
		)
	}
	if !utils.IsValidIdempotencyKey(payload.IdempotencyKey) {
		return nil, decimal.Zero, nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid idempotency key",
		)
	}
	amount, amountErr := utils.ParseAmount(payload.AmountHusd)
	if amountErr != nil {
		return nil, decimal.Zero, nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, amountErr.Error(),
		)
	}
	quotedRate, rateErr := parseQuotedRate(payload.QuotedRate, payload.RateSequence)
	if rateErr != nil {
		return nil, decimal.Zero, nil, rateErr
	}

	return payload, amount, quotedRate, nil
}

// GetMaxInstantWithdrawable godoc
// @Summary Get the instant withdrawal ceiling
// @Description Reports the largest hUSD amount the instant pool can currently pay out at the current rate.
// @Description The figure is advisory and can change before a subsequent withdrawal.
// @Produce json
// @Success 200 {object} PublicResponse[services.MaxInstantWithdrawResult] "Current ceiling, pool liquidity and rate"
// @Failure 503 {object} api.ErrorResponse "Rate or ledger unavailable"
// @Router /v1/withdrawals/instant/max [get]
func (h *Handler) GetMaxInstantWithdrawable(request *http.Request) (*Result, *types.Error) {
	result, err := h.services.GetMaxInstantWithdrawable(request.Context())
	if err != nil {
		return nil, err
	}

	return NewResult(result), nil
}

// ProcessInstantWithdraw godoc
// @Summary Instant withdrawal
// @Description Converts hUSD to USDC immediately against the instant liquidity pool, net of the protocol fee.
// @Accept json
// @Produce json
// @Param payload body WithdrawRequestPayload true "Withdrawal Request Payload"
// @Success 200 {object} PublicResponse[services.WithdrawResult] "Settled withdrawal with fee breakdown"
// @Failure 400 {object} api.ErrorResponse "Invalid request payload"
// @Failure 403 {object} api.ErrorResponse "Duplicate idempotency key"
// @Failure 409 {object} api.ErrorResponse "Stale rate or insufficient pool liquidity"
// @Router /v1/withdrawals/instant [post]
func (h *Handler) ProcessInstantWithdraw(request *http.Request) (*Result, *types.Error) {
	payload, amount, quotedRate, err := parseWithdrawRequestPayload(request)
	if err != nil {
		return nil, err
	}
	result, withdrawErr := h.services.ProcessInstantWithdraw(
		request.Context(), payload.UserAccountID, payload.IdempotencyKey, amount, *quotedRate,
	)
	if withdrawErr != nil {
		return nil, withdrawErr
	}

	return NewResult(result), nil
}

// RequestStandardWithdraw godoc
// @Summary Standard withdrawal
// @Description Registers a fee-free withdrawal that pays out after the time lock.
// @Description The hUSD must already have been transferred to the emissions account.
// @Accept json
// @Produce json
// @Param payload body WithdrawRequestPayload true "Withdrawal Request Payload"
// @Success 200 {object} PublicResponse[services.StandardWithdrawResult] "Accepted withdrawal with unlock time"
// @Failure 400 {object} api.ErrorResponse "Invalid request payload or incoming transfer not found"
// @Failure 403 {object} api.ErrorResponse "Duplicate idempotency key"
// @Failure 409 {object} api.ErrorResponse "Quoted rate is stale"
// @Router /v1/withdrawals/standard [post]
func (h *Handler) RequestStandardWithdraw(request *http.Request) (*Result, *types.Error) {
	payload, amount, quotedRate, err := parseWithdrawRequestPayload(request)
	if err != nil {
		return nil, err
	}
	result, withdrawErr := h.services.RequestStandardWithdraw(
		request.Context(), payload.UserAccountID, payload.IdempotencyKey, amount, *quotedRate,
	)
	if withdrawErr != nil {
		return nil, withdrawErr
	}

	return NewResult(result), nil
}

// ProcessPendingWithdrawals godoc
// @Summary Settle unlocked withdrawals
// @Description Pays out every standard withdrawal whose time lock has passed. Also run periodically by the worker.
// @Produce json
// @Success 200 {object} PublicResponse[types.ProcessPendingResult] "Batch outcome counts"
// @Router /v1/withdrawals/process [post]
func (h *Handler) ProcessPendingWithdrawals(request *http.Request) (*Result, *types.Error) {
	result, err := h.services.ProcessPendingWithdrawals(request.Context())
	if err != nil {
		return nil, err
	}

	return NewResult(result), nil
}
