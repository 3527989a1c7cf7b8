package types

import "time"

type EventType string

const (
	EventDepositInitiated    EventType = "deposit_initiated"
	EventDepositCompleted    EventType = "deposit_completed"
	EventDepositFailed       EventType = "deposit_failed"
	EventWithdrawalRequested EventType = "withdrawal_requested"
	EventWithdrawalCompleted EventType = "withdrawal_completed"
	EventWithdrawalFailed    EventType = "withdrawal_failed"
)

func (e EventType) ToString() string {
	return string(e)
}

// SettlementEvent is a lifecycle event published on the in-process event bus and
// mirrored to the external audit trail. Ref is the scheduleId for deposits and the
// requestId for withdrawals.
type SettlementEvent struct {
	Type           EventType      `json:"type"`
	Ref            string         `json:"ref"`
	UserAccountID  string         `json:"user_account_id"`
	WithdrawalType WithdrawalType `json:"withdrawal_type,omitempty"`
	Amount         string         `json:"amount,omitempty"`
	Asset          string         `json:"asset,omitempty"`
	RateSequence   string         `json:"rate_sequence,omitempty"`
	TxID           string         `json:"tx_id,omitempty"`
	Reason         string         `json:"reason,omitempty"`
	At             time.Time      `json:"at"`
}
