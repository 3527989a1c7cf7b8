package model

import (
	"time"

	"github.com/husd-protocol/settlement-api-service/internal/types"
)

const DepositTicketCollection = "deposit_tickets"

// DepositTicketDocument is the local index of a ledger scheduled transaction.
// The ledger is the system of record for the schedule itself; this document tracks
// the local lifecycle keyed by the unique scheduleId used to correlate co-signature
// callbacks. CompletedTxID caches the completion result so that repeated complete
// calls on the same scheduleId return it without a second ledger submission.
type DepositTicketDocument struct {
	ScheduleID         string             `bson:"_id"` // Primary key
	UserAccountID      string             `bson:"user_account_id"`
	SourceAmountUsdc   string             `bson:"source_amount_usdc"`
	ExpectedHusdAmount string             `bson:"expected_husd_amount"`
	QuotedRate         string             `bson:"quoted_rate"`
	RateSequence       string             `bson:"rate_sequence"`
	State              types.DepositState `bson:"state"`
	CompletedTxID      string             `bson:"completed_tx_id,omitempty"`
	FailureReason      string             `bson:"failure_reason,omitempty"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}
