package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/husd-protocol/settlement-api-service/internal/types"
	"github.com/husd-protocol/settlement-api-service/internal/utils"
)

type InitDepositRequestPayload struct {
	UserAccountID    string `json:"user_account_id"`
	SourceAmountUsdc string `json:"source_amount_usdc"`
	QuotedRate       string `json:"quoted_rate"`
	RateSequence     string `json:"rate_sequence"`
}

type CompleteDepositRequestPayload struct {
	ScheduleID         string `json:"schedule_id"`
	UserSignatureProof string `json:"user_signature_proof"`
}

func parseInitDepositRequestPayload(request *http.Request) (
	string, decimal.Decimal, *types.ExchangeRate, *types.Error,
) {
	payload := &InitDepositRequestPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return "", decimal.Zero, nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if !utils.IsValidAccountID(payload.UserAccountID) {
		return "", decimal.Zero, nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid user account id",
		)
	}
	amount, amountErr := utils.ParseAmount(payload.SourceAmountUsdc)
	if amountErr != nil {
		return "", decimal.Zero, nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, amountErr.Error(),
		)
	}
	quotedRate, rateErr := parseQuotedRate(payload.QuotedRate, payload.RateSequence)
	if rateErr != nil {
		return "", decimal.Zero, nil, rateErr
	}

	return payload.UserAccountID, amount, quotedRate, nil
}

func parseCompleteDepositRequestPayload(request *http.Request) (*CompleteDepositRequestPayload, *types.Error) {
	payload := &CompleteDepositRequestPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if !utils.IsValidScheduleID(payload.ScheduleID) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid schedule id",
		)
	}
	if !utils.IsValidSignatureProof(payload.UserSignatureProof) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid user signature proof",
		)
	}

	return payload, nil
}

func parseQuotedRate(rate, sequence string) (*types.ExchangeRate, *types.Error) {
	if !utils.IsValidSequenceNumber(sequence) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid rate sequence",
		)
	}
	parsedRate, err := decimal.NewFromString(rate)
	if err != nil || !parsedRate.IsPositive() {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid quoted rate",
		)
	}
	return &types.ExchangeRate{Rate: parsedRate, SequenceNumber: sequence}, nil
}

// InitDeposit godoc
// @Summary Initiate a deposit
// @Description Creates a scheduled two-party transfer converting USDC to hUSD at the quoted rate.
// @Description The returned schedule id must be co-signed by the user and then completed.
// @Accept json
// @Produce json
// @Param payload body InitDepositRequestPayload true "Deposit Request Payload"
// @Success 200 {object} PublicResponse[services.InitDepositResult] "Deposit ticket with schedule id"
// @Failure 400 {object} api.ErrorResponse "Invalid request payload"
// @Failure 409 {object} api.ErrorResponse "Quoted rate is stale"
// @Router /v1/deposits [post]
func (h *Handler) InitDeposit(request *http.Request) (*Result, *types.Error) {
	userAccountId, amount, quotedRate, err := parseInitDepositRequestPayload(request)
	if err != nil {
		return nil, err
	}
	result, depositErr := h.services.InitDeposit(request.Context(), userAccountId, amount, *quotedRate)
	if depositErr != nil {
		return nil, depositErr
	}

	return NewResult(result), nil
}

// CompleteDeposit godoc
// @Summary Complete a deposit
// @Description Submits the user co-signature proof and executes the scheduled transfer.
// @Description Idempotent per schedule id; repeated calls return the original completion result.
// @Accept json
// @Produce json
// @Param payload body CompleteDepositRequestPayload true "Completion Request Payload"
// @Success 200 {object} PublicResponse[services.CompleteDepositResult] "Completed deposit with ledger transaction id"
// @Failure 400 {object} api.ErrorResponse "Invalid request payload"
// @Failure 403 {object} api.ErrorResponse "Unknown schedule or deposit already failed"
// @Router /v1/deposits/complete [post]
func (h *Handler) CompleteDeposit(request *http.Request) (*Result, *types.Error) {
	payload, err := parseCompleteDepositRequestPayload(request)
	if err != nil {
		return nil, err
	}
	result, completeErr := h.services.CompleteDeposit(
		request.Context(), payload.ScheduleID, payload.UserSignatureProof,
	)
	if completeErr != nil {
		return nil, completeErr
	}

	return NewResult(result), nil
}
