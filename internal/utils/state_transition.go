package utils

import (
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// QualifiedStatesToDepositCompleted returns the qualified existing states to transition to "completed"
func QualifiedStatesToDepositCompleted() []types.DepositState {
	return []types.DepositState{types.DepositInitialized, types.DepositAwaitingSignature}
}

// QualifiedStatesToDepositFailed returns the qualified existing states to transition to "failed".
// Completed is terminal: a deposit is never failed after the ledger confirmed it.
func QualifiedStatesToDepositFailed() []types.DepositState {
	return []types.DepositState{types.DepositInitialized, types.DepositAwaitingSignature}
}

// QualifiedStatesToWithdrawalCompleted returns the qualified existing states to transition to "completed"
func QualifiedStatesToWithdrawalCompleted() []types.WithdrawalState {
	return []types.WithdrawalState{types.WithdrawalPending}
}

// QualifiedStatesToWithdrawalFailed returns the qualified existing states to transition to "failed"
func QualifiedStatesToWithdrawalFailed() []types.WithdrawalState {
	return []types.WithdrawalState{types.WithdrawalPending}
}
