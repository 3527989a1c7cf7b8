package handlers

import (
	"net/http"

	"github.com/husd-protocol/settlement-api-service/internal/types"
	"github.com/husd-protocol/settlement-api-service/internal/utils"
)

// GetWithdrawalHistory godoc
// @Summary Get withdrawal history
// @Description Lists a user's withdrawals, newest first.
// @Produce json
// @Param user_account_id query string true "User ledger account id"
// @Param pagination_key query string false "Pagination key to fetch the next page of withdrawals"
// @Success 200 {object} PublicResponse[[]services.WithdrawalHistoryItem]{array} "List of withdrawals and pagination token"
// @Failure 400 {object} api.ErrorResponse "Error: Bad Request"
// @Router /v1/withdrawals [get]
func (h *Handler) GetWithdrawalHistory(request *http.Request) (*Result, *types.Error) {
	userAccountId := request.URL.Query().Get("user_account_id")
	if userAccountId == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "user_account_id is required")
	}
	if !utils.IsValidAccountID(userAccountId) {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid user account id")
	}

	paginationKey := request.URL.Query().Get("pagination_key")

	withdrawals, newPaginationKey, err := h.services.GetWithdrawalHistory(request.Context(), userAccountId, paginationKey)
	if err != nil {
		return nil, err
	}

	return NewResultWithPagination(withdrawals, newPaginationKey), nil
}
