package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/husd-protocol/settlement-api-service/internal/clients/ledger"
	"github.com/husd-protocol/settlement-api-service/internal/db"
	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

const testScheduleId = "0.0.5555"

func TestInitDeposit_BelowMinimumIsRejected(t *testing.T) {
	services, _ := newTestServices(newTestConfig())

	_, err := services.InitDeposit(
		context.Background(), testUserAccount, decimal.RequireFromString("9.99"), *rate("1.01", "42"),
	)

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, types.ValidationError, err.ErrorCode)
}

func TestInitDeposit_HappyPath(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.rateLog.On("Latest", mock.Anything).Return(rate("1.01", "42"), nil)

	// 100 / 1.01 truncated to 8 hUSD decimals
	expectedHusd := "99.00990099"
	expectedLegs := []ledger.TransferLeg{
		{AccountID: testUserAccount, TokenID: testUsdcToken, AmountMinor: -100_000_000},
		{AccountID: testTreasuryAccount, TokenID: testUsdcToken, AmountMinor: 100_000_000},
		{AccountID: testEmissionsAccount, TokenID: testHusdToken, AmountMinor: -9_900_990_099},
		{AccountID: testUserAccount, TokenID: testHusdToken, AmountMinor: 9_900_990_099},
	}
	mocks.ledger.On("CreateScheduledTransfer", mock.Anything, expectedLegs, mock.Anything).
		Return(testScheduleId, nil)
	mocks.db.On("SaveDepositTicket",
		mock.Anything, testScheduleId, testUserAccount, "100", expectedHusd, "1.01", "42",
	).Return(nil)

	result, err := services.InitDeposit(
		context.Background(), testUserAccount, decimal.RequireFromString("100"), *rate("1.01", "42"),
	)

	require.Nil(t, err)
	assert.Equal(t, testScheduleId, result.ScheduleID)
	assert.Equal(t, expectedHusd, result.ExpectedHusdAmount)
	assert.Equal(t, "42", result.RateSequence)
	mocks.ledger.AssertExpectations(t)
	mocks.db.AssertExpectations(t)
}

func TestInitDeposit_StaleRateReturnsConflictWithRecomputedOutput(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.rateLog.On("Latest", mock.Anything).Return(rate("1.02", "43"), nil)

	_, err := services.InitDeposit(
		context.Background(), testUserAccount, decimal.RequireFromString("100"), *rate("1.01", "42"),
	)

	require.NotNil(t, err)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, types.RateConflict, err.ErrorCode)

	details, ok := err.Details.(types.RateConflictDetails)
	require.True(t, ok)
	// 100 / 1.02 truncated to 8 hUSD decimals
	assert.Equal(t, "98.03921568", details.RecomputedOut)
	assert.Equal(t, "43", details.CurrentRate.SequenceNumber)
	// No schedule must be created on a stale quote
	mocks.ledger.AssertNotCalled(t, "CreateScheduledTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func awaitingTicket() *model.DepositTicketDocument {
	return &model.DepositTicketDocument{
		ScheduleID:         testScheduleId,
		UserAccountID:      testUserAccount,
		SourceAmountUsdc:   "100",
		ExpectedHusdAmount: "99.00990099",
		QuotedRate:         "1.01",
		RateSequence:       "42",
		State:              types.DepositAwaitingSignature,
	}
}

func TestCompleteDeposit_HappyPath(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.db.On("FindDepositTicketByScheduleId", mock.Anything, testScheduleId).Return(awaitingTicket(), nil)
	mocks.ledger.On("SignAndExecuteSchedule", mock.Anything, testScheduleId, "c2lnbmF0dXJl").
		Return("0.0.7777@123", nil)
	mocks.db.On("TransitionDepositToCompleted", mock.Anything, testScheduleId, "0.0.7777@123", mock.Anything).
		Return(nil)

	result, err := services.CompleteDeposit(context.Background(), testScheduleId, "c2lnbmF0dXJl")

	require.Nil(t, err)
	assert.Equal(t, "0.0.7777@123", result.TxID)
	mocks.db.AssertExpectations(t)
}

func TestCompleteDeposit_RepeatedCallReturnsCachedResult(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	completed := awaitingTicket()
	completed.State = types.DepositCompleted
	completed.CompletedTxID = "0.0.7777@123"
	mocks.db.On("FindDepositTicketByScheduleId", mock.Anything, testScheduleId).Return(completed, nil)

	result, err := services.CompleteDeposit(context.Background(), testScheduleId, "c2lnbmF0dXJl")

	require.Nil(t, err)
	assert.Equal(t, "0.0.7777@123", result.TxID)
	// The schedule must not be submitted to the ledger a second time
	mocks.ledger.AssertNotCalled(t, "SignAndExecuteSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteDeposit_AlreadyFailedIsForbidden(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	failed := awaitingTicket()
	failed.State = types.DepositFailed
	failed.FailureReason = "schedule expired"
	mocks.db.On("FindDepositTicketByScheduleId", mock.Anything, testScheduleId).Return(failed, nil)

	_, err := services.CompleteDeposit(context.Background(), testScheduleId, "c2lnbmF0dXJl")

	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.StatusCode)
	mocks.ledger.AssertNotCalled(t, "SignAndExecuteSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteDeposit_UnknownScheduleIsForbidden(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.db.On("FindDepositTicketByScheduleId", mock.Anything, testScheduleId).
		Return(nil, &db.NotFoundError{Key: testScheduleId, Message: "no ticket"})

	_, err := services.CompleteDeposit(context.Background(), testScheduleId, "c2lnbmF0dXJl")

	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.StatusCode)
	assert.Equal(t, types.NotFound, err.ErrorCode)
}

func TestCompleteDeposit_LedgerRejectionMarksTicketFailed(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.db.On("FindDepositTicketByScheduleId", mock.Anything, testScheduleId).Return(awaitingTicket(), nil)
	rejection := types.NewErrorWithMsg(http.StatusBadRequest, types.LedgerRejected, "INVALID_SIGNATURE")
	mocks.ledger.On("SignAndExecuteSchedule", mock.Anything, testScheduleId, "c2lnbmF0dXJl").
		Return("", rejection)
	mocks.db.On("TransitionDepositToFailed", mock.Anything, testScheduleId, "INVALID_SIGNATURE", mock.Anything).
		Return(nil)

	_, err := services.CompleteDeposit(context.Background(), testScheduleId, "c2lnbmF0dXJl")

	require.NotNil(t, err)
	assert.Equal(t, types.LedgerRejected, err.ErrorCode)
	mocks.db.AssertExpectations(t)
}

func TestCompleteDeposit_TransientLedgerErrorLeavesTicketUntouched(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.db.On("FindDepositTicketByScheduleId", mock.Anything, testScheduleId).Return(awaitingTicket(), nil)
	unavailable := types.NewErrorWithMsg(http.StatusServiceUnavailable, types.LedgerUnavailable, "gateway timeout")
	mocks.ledger.On("SignAndExecuteSchedule", mock.Anything, testScheduleId, "c2lnbmF0dXJl").
		Return("", unavailable)

	_, err := services.CompleteDeposit(context.Background(), testScheduleId, "c2lnbmF0dXJl")

	require.NotNil(t, err)
	assert.True(t, err.IsTransient())
	mocks.db.AssertNotCalled(t, "TransitionDepositToFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mocks.db.AssertNotCalled(t, "TransitionDepositToCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteDeposit_SaveErrorSurfacesAsInternal(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.db.On("FindDepositTicketByScheduleId", mock.Anything, testScheduleId).
		Return(nil, errors.New("connection reset"))

	_, err := services.CompleteDeposit(context.Background(), testScheduleId, "c2lnbmF0dXJl")

	require.NotNil(t, err)
	assert.Equal(t, types.InternalServiceError, err.ErrorCode)
}
