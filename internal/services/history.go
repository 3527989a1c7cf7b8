package services

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/husd-protocol/settlement-api-service/internal/db"
	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

type WithdrawalHistoryItem struct {
	RequestID     string     `json:"request_id"`
	Type          string     `json:"type"`
	AmountHusd    string     `json:"amount_husd"`
	FeeUsdc       string     `json:"fee_usdc"`
	NetUsdc       string     `json:"net_usdc"`
	Rate          string     `json:"rate"`
	RateSequence  string     `json:"rate_sequence"`
	Status        string     `json:"status"`
	UnlockAt      *time.Time `json:"unlock_at,omitempty"`
	CompletedTxID string     `json:"completed_tx_id,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// GetWithdrawalHistory lists a user's withdrawals, newest first, with a cursor token
// for the next page.
func (s *Services) GetWithdrawalHistory(
	ctx context.Context, userAccountId, paginationToken string,
) ([]WithdrawalHistoryItem, string, *types.Error) {
	resultMap, err := s.DbClient.FindWithdrawalsByUser(ctx, userAccountId, paginationToken)
	if err != nil {
		if db.IsInvalidPaginationTokenError(err) {
			return nil, "", types.NewError(http.StatusBadRequest, types.BadRequest, err)
		}
		log.Ctx(ctx).Error().Err(err).Str("userAccountId", userAccountId).Msg("failed to fetch withdrawal history")
		return nil, "", types.NewInternalServiceError(err)
	}

	items := make([]WithdrawalHistoryItem, 0, len(resultMap.Data))
	for _, doc := range resultMap.Data {
		items = append(items, toWithdrawalHistoryItem(doc))
	}
	return items, resultMap.PaginationToken, nil
}

func toWithdrawalHistoryItem(doc model.WithdrawalDocument) WithdrawalHistoryItem {
	return WithdrawalHistoryItem{
		RequestID:     doc.RequestID,
		Type:          doc.Type.ToString(),
		AmountHusd:    doc.AmountHusd,
		FeeUsdc:       doc.FeeUsdc,
		NetUsdc:       doc.NetUsdc,
		Rate:          doc.Rate,
		RateSequence:  doc.RateSequence,
		Status:        doc.Status.ToString(),
		UnlockAt:      doc.UnlockAt,
		CompletedTxID: doc.CompletedTxID,
		FailureReason: doc.FailureReason,
		CreatedAt:     doc.CreatedAt,
	}
}
