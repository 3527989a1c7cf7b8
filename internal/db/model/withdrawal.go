package model

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/husd-protocol/settlement-api-service/internal/types"
)

const WithdrawalCollection = "withdrawals"

// WithdrawalDocument records one withdrawal request. Instant withdrawals complete
// synchronously; standard ones stay pending until UnlockAt passes and the
// reconciliation worker settles them. The (user_account_id, idempotency_key) unique
// index provides replay protection within the freshness window.
type WithdrawalDocument struct {
	RequestID      string                `bson:"_id"` // Primary key
	UserAccountID  string                `bson:"user_account_id"`
	IdempotencyKey string                `bson:"idempotency_key"`
	Type           types.WithdrawalType  `bson:"type"`
	AmountHusd     string                `bson:"amount_husd"`
	GrossUsdc      string                `bson:"gross_usdc"`
	FeeUsdc        string                `bson:"fee_usdc"`
	NetUsdc        string                `bson:"net_usdc"`
	Rate           string                `bson:"rate"`
	RateSequence   string                `bson:"rate_sequence"`
	Status         types.WithdrawalState `bson:"status"`
	UnlockAt       *time.Time            `bson:"unlock_at,omitempty"` // Standard only
	CompletedTxID  string                `bson:"completed_tx_id,omitempty"`
	FailureReason  string                `bson:"failure_reason,omitempty"`
	CreatedAt      time.Time             `bson:"created_at"`
	UpdatedAt      time.Time             `bson:"updated_at"`
}

type WithdrawalByUserPagination struct {
	CreatedAt time.Time `json:"created_at"`
	RequestID string    `json:"request_id"`
}

func DecodeWithdrawalByUserPaginationToken(token string) (*WithdrawalByUserPagination, error) {
	tokenBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var p WithdrawalByUserPagination
	err = json.Unmarshal(tokenBytes, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *WithdrawalByUserPagination) GetPaginationToken() (string, error) {
	tokenBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}

func BuildWithdrawalByUserPaginationToken(d WithdrawalDocument) (string, error) {
	page := &WithdrawalByUserPagination{
		CreatedAt: d.CreatedAt,
		RequestID: d.RequestID,
	}
	token, err := page.GetPaginationToken()
	if err != nil {
		return "", err
	}
	return token, nil
}
