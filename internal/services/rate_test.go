package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/husd-protocol/settlement-api-service/internal/types"
)

func rate(value, sequence string) *types.ExchangeRate {
	return &types.ExchangeRate{
		Rate:           decimal.RequireFromString(value),
		SequenceNumber: sequence,
	}
}

func TestCheckQuotedRate_SameSequenceIsFresh(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.rateLog.On("Latest", mock.Anything).Return(rate("1.01", "42"), nil)

	current, stale, err := services.checkQuotedRate(context.Background(), *rate("1.01", "42"))

	require.Nil(t, err)
	assert.False(t, stale)
	assert.Equal(t, "42", current.SequenceNumber)
}

func TestCheckQuotedRate_SequenceMismatchIsStaleEvenIfValueUnchanged(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	// Same numeric rate republished under a new sequence. Sequence equality is the
	// only authoritative check, so this still counts as stale.
	mocks.rateLog.On("Latest", mock.Anything).Return(rate("1.01", "43"), nil)

	current, stale, err := services.checkQuotedRate(context.Background(), *rate("1.01", "42"))

	require.Nil(t, err)
	assert.True(t, stale)
	assert.Equal(t, "43", current.SequenceNumber)
}

func TestCheckQuotedRate_RateLogUnavailable(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	unavailable := types.NewErrorWithMsg(http.StatusServiceUnavailable, types.RateUnavailable, "rate log unreachable")
	mocks.rateLog.On("Latest", mock.Anything).Return(nil, unavailable)

	_, _, err := services.checkQuotedRate(context.Background(), *rate("1.01", "42"))

	require.NotNil(t, err)
	assert.Equal(t, types.RateUnavailable, err.ErrorCode)
	assert.True(t, err.IsTransient())
}

func TestGetRateHistory_ReturnsPublishedRatesNewestFirst(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	published := []types.ExchangeRate{*rate("1.02", "43"), *rate("1.01", "42")}
	mocks.rateLog.On("History", mock.Anything, 2).Return(published, nil)

	rates, err := services.GetRateHistory(context.Background(), 2)

	require.Nil(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "43", rates[0].SequenceNumber)
	assert.Equal(t, "42", rates[1].SequenceNumber)
}

func TestGetRateHistory_ClampsLimit(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.rateLog.On("History", mock.Anything, 20).Return([]types.ExchangeRate{*rate("1.01", "42")}, nil)
	mocks.rateLog.On("History", mock.Anything, 100).Return([]types.ExchangeRate{*rate("1.01", "42")}, nil)

	_, err := services.GetRateHistory(context.Background(), 0)
	require.Nil(t, err)
	_, err = services.GetRateHistory(context.Background(), 5000)
	require.Nil(t, err)

	mocks.rateLog.AssertExpectations(t)
}

func TestGetRateHistory_RateLogUnavailable(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	unavailable := types.NewErrorWithMsg(http.StatusServiceUnavailable, types.RateUnavailable, "rate log unreachable")
	mocks.rateLog.On("History", mock.Anything, 20).Return(nil, unavailable)

	_, err := services.GetRateHistory(context.Background(), 0)

	require.NotNil(t, err)
	assert.Equal(t, types.RateUnavailable, err.ErrorCode)
	assert.True(t, err.IsTransient())
}

func TestNewRateConflict_CarriesBothRatesAndRecomputedOutput(t *testing.T) {
	quoted := rate("1.01", "42")
	current := rate("1.02", "43")
	sourceAmount := decimal.RequireFromString("100")
	recomputed := decimal.RequireFromString("98.03921568")

	err := newRateConflict(*quoted, *current, sourceAmount, recomputed, testHusdToken)

	require.NotNil(t, err)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, types.RateConflict, err.ErrorCode)

	details, ok := err.Details.(types.RateConflictDetails)
	require.True(t, ok)
	assert.Equal(t, "42", details.QuotedRate.SequenceNumber)
	assert.Equal(t, "43", details.CurrentRate.SequenceNumber)
	assert.Equal(t, "100", details.SourceAmount)
	assert.Equal(t, "98.03921568", details.RecomputedOut)
	assert.Equal(t, testHusdToken, details.OutputAsset)
}
