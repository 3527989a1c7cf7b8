package ledger

import (
	"context"
	"net/http"
	"time"

	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// TransferLeg is one signed balance movement within an atomic transfer.
// Negative amounts debit the account, positive amounts credit it; legs of a
// transfer must net to zero per asset, which the ledger enforces.
type TransferLeg struct {
	AccountID   string `json:"account_id"`
	TokenID     string `json:"token_id"`
	AmountMinor int64  `json:"amount_minor"`
}

// Client proxies the external ledger's transfer and scheduled-transaction primitives.
// The ledger's own atomicity and ordering are the source of truth; this service only
// orchestrates above them.
type Client interface {
	// CreateScheduledTransfer creates a multi-party scheduled transaction that finalizes
	// only once all required parties have co-signed. Returns the unique schedule id.
	CreateScheduledTransfer(ctx context.Context, legs []TransferLeg, memo string) (string, *types.Error)
	// SignAndExecuteSchedule submits the user co-signature proof and executes the schedule.
	SignAndExecuteSchedule(ctx context.Context, scheduleId, signatureProof string) (string, *types.Error)
	// Transfer submits a single atomic multi-leg transfer, no co-signature round-trip.
	Transfer(ctx context.Context, legs []TransferLeg, memo string) (string, *types.Error)
	// VerifyIncomingTransfer reports whether a transfer of the given amount from one
	// account to another has landed within the lookback window starting at since.
	VerifyIncomingTransfer(ctx context.Context, from, to, tokenId string, amountMinor int64, since time.Time) (bool, *types.Error)
	// GetBalance returns the account's balance for a token, in minor units.
	GetBalance(ctx context.Context, accountId, tokenId string) (int64, *types.Error)
}

type GatewayClientInterface interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() int
	GetHttpClient() *http.Client
	Client
}
