package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/husd-protocol/settlement-api-service/internal/clients/ledger"
	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

func TestRequestStandardWithdraw_HappyPath(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.rateLog.On("Latest", mock.Anything).Return(rate("1.01", "42"), nil)
	// 50 hUSD transferred to emissions within the lookback window
	mocks.ledger.On("VerifyIncomingTransfer",
		mock.Anything, testUserAccount, testEmissionsAccount, testHusdToken,
		int64(5_000_000_000), mocks.now.Add(-time.Hour),
	).Return(true, nil)
	mocks.db.On("SaveWithdrawal", mock.Anything, mock.Anything).Return(nil)
	mocks.auditLog.On("Publish", mock.Anything, "withdraw_request", mock.Anything).Return("0.0.9999@1", nil)

	result, err := services.RequestStandardWithdraw(
		context.Background(), testUserAccount, testIdempotencyKey,
		decimal.RequireFromString("50"), *rate("1.01", "42"),
	)

	require.Nil(t, err)
	assert.Equal(t, "50.5", result.NetUsdc)
	assert.Equal(t, mocks.now.Add(48*time.Hour), result.UnlockAt)

	saved := mocks.db.Calls[0].Arguments.Get(1).(*model.WithdrawalDocument)
	assert.Equal(t, types.WithdrawalStandard, saved.Type)
	assert.Equal(t, types.WithdrawalPending, saved.Status)
	assert.Equal(t, "0", saved.FeeUsdc)
	require.NotNil(t, saved.UnlockAt)
	assert.Equal(t, mocks.now.Add(48*time.Hour), *saved.UnlockAt)
}

func TestRequestStandardWithdraw_NoIncomingTransferIsRejected(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.rateLog.On("Latest", mock.Anything).Return(rate("1.01", "42"), nil)
	mocks.ledger.On("VerifyIncomingTransfer",
		mock.Anything, testUserAccount, testEmissionsAccount, testHusdToken,
		mock.Anything, mock.Anything,
	).Return(false, nil)

	_, err := services.RequestStandardWithdraw(
		context.Background(), testUserAccount, testIdempotencyKey,
		decimal.RequireFromString("50"), *rate("1.01", "42"),
	)

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, types.ValidationError, err.ErrorCode)
	mocks.db.AssertNotCalled(t, "SaveWithdrawal", mock.Anything, mock.Anything)
}

func TestRequestStandardWithdraw_AuditPublishFailureDoesNotFailRequest(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.rateLog.On("Latest", mock.Anything).Return(rate("1.01", "42"), nil)
	mocks.ledger.On("VerifyIncomingTransfer",
		mock.Anything, testUserAccount, testEmissionsAccount, testHusdToken,
		mock.Anything, mock.Anything,
	).Return(true, nil)
	mocks.db.On("SaveWithdrawal", mock.Anything, mock.Anything).Return(nil)
	auditErr := types.NewErrorWithMsg(http.StatusServiceUnavailable, types.InternalServiceError, "topic unreachable")
	mocks.auditLog.On("Publish", mock.Anything, "withdraw_request", mock.Anything).Return("", auditErr)

	result, err := services.RequestStandardWithdraw(
		context.Background(), testUserAccount, testIdempotencyKey,
		decimal.RequireFromString("50"), *rate("1.01", "42"),
	)

	require.Nil(t, err)
	assert.NotEmpty(t, result.RequestID)
}

func pendingWithdrawal(requestId string) model.WithdrawalDocument {
	unlockAt := time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC)
	return model.WithdrawalDocument{
		RequestID:     requestId,
		UserAccountID: testUserAccount,
		Type:          types.WithdrawalStandard,
		AmountHusd:    "50",
		GrossUsdc:     "50.5",
		FeeUsdc:       "0",
		NetUsdc:       "50.5",
		Rate:          "1.01",
		RateSequence:  "42",
		Status:        types.WithdrawalPending,
		UnlockAt:      &unlockAt,
	}
}

func TestProcessPendingWithdrawals_PayoutSucceeds(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.db.On("FindProcessableWithdrawals", mock.Anything, mocks.now).
		Return([]model.WithdrawalDocument{pendingWithdrawal("req-1")}, nil)
	expectedLegs := []ledger.TransferLeg{
		{AccountID: testStandardPool, TokenID: testUsdcToken, AmountMinor: -50_500_000},
		{AccountID: testUserAccount, TokenID: testUsdcToken, AmountMinor: 50_500_000},
	}
	mocks.ledger.On("Transfer", mock.Anything, expectedLegs, mock.Anything).Return("0.0.7777@789", nil)
	mocks.db.On("TransitionWithdrawalState",
		mock.Anything, "req-1", types.WithdrawalCompleted, mock.Anything, "0.0.7777@789", "",
	).Return(nil)

	result, err := services.ProcessPendingWithdrawals(context.Background())

	require.Nil(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 0, result.Failed)
	mocks.ledger.AssertExpectations(t)
	mocks.db.AssertExpectations(t)
}

func TestProcessPendingWithdrawals_TimeLockedRecordIsNotPaidOut(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	// One hour after the request, a full 47 hours before the lock expires.
	locked := pendingWithdrawal("req-locked")
	stillLocked := mocks.now.Add(47 * time.Hour)
	locked.UnlockAt = &stillLocked
	mocks.db.On("FindProcessableWithdrawals", mock.Anything, mocks.now).
		Return([]model.WithdrawalDocument{locked}, nil)

	result, err := services.ProcessPendingWithdrawals(context.Background())

	require.Nil(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "time locked")
	mocks.ledger.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
	mocks.db.AssertNotCalled(t, "TransitionWithdrawalState",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPendingWithdrawals_PaysOutAtExactUnlockInstant(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	record := pendingWithdrawal("req-due")
	record.UnlockAt = &mocks.now
	mocks.db.On("FindProcessableWithdrawals", mock.Anything, mocks.now).
		Return([]model.WithdrawalDocument{record}, nil)
	mocks.ledger.On("Transfer", mock.Anything, mock.Anything, mock.Anything).Return("0.0.7777@790", nil)
	mocks.db.On("TransitionWithdrawalState",
		mock.Anything, "req-due", types.WithdrawalCompleted, mock.Anything, "0.0.7777@790", "",
	).Return(nil)

	result, err := services.ProcessPendingWithdrawals(context.Background())

	require.Nil(t, err)
	assert.Equal(t, 1, result.Completed)
	mocks.ledger.AssertExpectations(t)
}

func TestProcessPendingWithdrawals_RejectedPayoutIsCompensatedBeforeFailing(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.db.On("FindProcessableWithdrawals", mock.Anything, mocks.now).
		Return([]model.WithdrawalDocument{pendingWithdrawal("req-1")}, nil)

	payoutLegs := []ledger.TransferLeg{
		{AccountID: testStandardPool, TokenID: testUsdcToken, AmountMinor: -50_500_000},
		{AccountID: testUserAccount, TokenID: testUsdcToken, AmountMinor: 50_500_000},
	}
	rejection := types.NewErrorWithMsg(http.StatusBadRequest, types.LedgerRejected, "ACCOUNT_FROZEN")
	mocks.ledger.On("Transfer", mock.Anything, payoutLegs, mock.Anything).Return("", rejection)

	// The compensating return of the escrowed hUSD must land before the record fails
	returnLegs := []ledger.TransferLeg{
		{AccountID: testEmissionsAccount, TokenID: testHusdToken, AmountMinor: -5_000_000_000},
		{AccountID: testUserAccount, TokenID: testHusdToken, AmountMinor: 5_000_000_000},
	}
	mocks.ledger.On("Transfer", mock.Anything, returnLegs, mock.Anything).Return("0.0.7777@790", nil)
	mocks.db.On("TransitionWithdrawalState",
		mock.Anything, "req-1", types.WithdrawalFailed, mock.Anything, "", mock.Anything,
	).Return(nil)

	result, err := services.ProcessPendingWithdrawals(context.Background())

	require.Nil(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 1, result.Failed)
	mocks.ledger.AssertExpectations(t)
	mocks.db.AssertExpectations(t)
}

func TestProcessPendingWithdrawals_FailedCompensationLeavesRecordPending(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.db.On("FindProcessableWithdrawals", mock.Anything, mocks.now).
		Return([]model.WithdrawalDocument{pendingWithdrawal("req-1")}, nil)

	payoutLegs := []ledger.TransferLeg{
		{AccountID: testStandardPool, TokenID: testUsdcToken, AmountMinor: -50_500_000},
		{AccountID: testUserAccount, TokenID: testUsdcToken, AmountMinor: 50_500_000},
	}
	rejection := types.NewErrorWithMsg(http.StatusBadRequest, types.LedgerRejected, "ACCOUNT_FROZEN")
	mocks.ledger.On("Transfer", mock.Anything, payoutLegs, mock.Anything).Return("", rejection)

	returnLegs := []ledger.TransferLeg{
		{AccountID: testEmissionsAccount, TokenID: testHusdToken, AmountMinor: -5_000_000_000},
		{AccountID: testUserAccount, TokenID: testHusdToken, AmountMinor: 5_000_000_000},
	}
	unavailable := types.NewErrorWithMsg(http.StatusServiceUnavailable, types.LedgerUnavailable, "gateway timeout")
	mocks.ledger.On("Transfer", mock.Anything, returnLegs, mock.Anything).Return("", unavailable)

	result, err := services.ProcessPendingWithdrawals(context.Background())

	require.Nil(t, err)
	assert.Equal(t, 1, result.Failed)
	// The record must never reach failed without a confirmed compensating return
	mocks.db.AssertNotCalled(t, "TransitionWithdrawalState",
		mock.Anything, "req-1", types.WithdrawalFailed, mock.Anything, mock.Anything, mock.Anything,
	)
}

func TestProcessPendingWithdrawals_OneFailureDoesNotBlockTheBatch(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	first := pendingWithdrawal("req-1")
	second := pendingWithdrawal("req-2")
	second.NetUsdc = "101"
	second.GrossUsdc = "101"
	second.AmountHusd = "100"
	mocks.db.On("FindProcessableWithdrawals", mock.Anything, mocks.now).
		Return([]model.WithdrawalDocument{first, second}, nil)

	// First record's payout keeps timing out, second settles fine
	firstLegs := []ledger.TransferLeg{
		{AccountID: testStandardPool, TokenID: testUsdcToken, AmountMinor: -50_500_000},
		{AccountID: testUserAccount, TokenID: testUsdcToken, AmountMinor: 50_500_000},
	}
	unavailable := types.NewErrorWithMsg(http.StatusServiceUnavailable, types.LedgerUnavailable, "gateway timeout")
	mocks.ledger.On("Transfer", mock.Anything, firstLegs, mock.Anything).Return("", unavailable)

	secondLegs := []ledger.TransferLeg{
		{AccountID: testStandardPool, TokenID: testUsdcToken, AmountMinor: -101_000_000},
		{AccountID: testUserAccount, TokenID: testUsdcToken, AmountMinor: 101_000_000},
	}
	mocks.ledger.On("Transfer", mock.Anything, secondLegs, mock.Anything).Return("0.0.7777@791", nil)
	mocks.db.On("TransitionWithdrawalState",
		mock.Anything, "req-2", types.WithdrawalCompleted, mock.Anything, "0.0.7777@791", "",
	).Return(nil)

	result, err := services.ProcessPendingWithdrawals(context.Background())

	require.Nil(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "req-1")
}
