package types

type DepositState string

const (
	DepositInitialized       DepositState = "initialized"
	DepositAwaitingSignature DepositState = "awaiting_user_signature"
	DepositCompleted         DepositState = "completed"
	DepositFailed            DepositState = "failed"
)

func (s DepositState) ToString() string {
	return string(s)
}

type WithdrawalState string

const (
	WithdrawalPending   WithdrawalState = "pending"
	WithdrawalCompleted WithdrawalState = "completed"
	WithdrawalFailed    WithdrawalState = "failed"
)

func (s WithdrawalState) ToString() string {
	return string(s)
}

type WithdrawalType string

const (
	WithdrawalInstant  WithdrawalType = "instant"
	WithdrawalStandard WithdrawalType = "standard"
)

func (t WithdrawalType) ToString() string {
	return string(t)
}

func WithdrawalTypeFromString(s string) WithdrawalType {
	switch s {
	case WithdrawalInstant.ToString():
		return WithdrawalInstant
	case WithdrawalStandard.ToString():
		return WithdrawalStandard
	default:
		return ""
	}
}

// ProcessPendingResult is the aggregate outcome of one reconciliation batch.
// One record's failure never aborts the remaining records, so the result
// enumerates every sub-operation outcome.
type ProcessPendingResult struct {
	Processed int      `json:"processed"`
	Completed int      `json:"completed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}
