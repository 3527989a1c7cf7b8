package handlers

import (
	"net/http"
	"strconv"

	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// GetLatestRate godoc
// @Summary Get the latest exchange rate
// @Description Returns the most recently published USDC-per-hUSD exchange rate with its sequence number. Clients quote deposits and withdrawals against this rate.
// @Produce json
// @Success 200 {object} PublicResponse[types.ExchangeRate] "Latest published rate"
// @Failure 503 {object} api.ErrorResponse "Error: Service Unavailable"
// @Router /v1/rates/latest [get]
func (h *Handler) GetLatestRate(request *http.Request) (*Result, *types.Error) {
	rate, err := h.services.CurrentRate(request.Context())
	if err != nil {
		return nil, err
	}
	return NewResult(rate), nil
}

// GetRateHistory godoc
// @Summary Get exchange rate history
// @Description Lists recently published exchange rates, newest first.
// @Produce json
// @Param limit query int false "Maximum number of rates to return (default 20, max 100)"
// @Success 200 {object} PublicResponse[[]types.ExchangeRate]{array} "List of published rates"
// @Failure 400 {object} api.ErrorResponse "Error: Bad Request"
// @Failure 503 {object} api.ErrorResponse "Error: Service Unavailable"
// @Router /v1/rates [get]
func (h *Handler) GetRateHistory(request *http.Request) (*Result, *types.Error) {
	limit := 0
	if raw := request.URL.Query().Get("limit"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil || parsed <= 0 {
			return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid limit")
		}
		limit = parsed
	}

	rates, err := h.services.GetRateHistory(request.Context(), limit)
	if err != nil {
		return nil, err
	}
	return NewResult(rates), nil
}
