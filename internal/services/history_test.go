package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/husd-protocol/settlement-api-service/internal/db"
	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

func TestGetWithdrawalHistory(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	docs := []model.WithdrawalDocument{
		pendingWithdrawal("req-2"),
		pendingWithdrawal("req-1"),
	}
	mocks.db.On("FindWithdrawalsByUser", mock.Anything, testUserAccount, "").
		Return(&db.DbResultMap[model.WithdrawalDocument]{Data: docs, PaginationToken: "next-token"}, nil)

	items, token, err := services.GetWithdrawalHistory(context.Background(), testUserAccount, "")

	require.Nil(t, err)
	assert.Equal(t, "next-token", token)
	require.Len(t, items, 2)
	assert.Equal(t, "req-2", items[0].RequestID)
	assert.Equal(t, "standard", items[0].Type)
	assert.Equal(t, "pending", items[0].Status)
	assert.Equal(t, "50.5", items[0].NetUsdc)
	require.NotNil(t, items[0].UnlockAt)
}

func TestGetWithdrawalHistory_InvalidPaginationToken(t *testing.T) {
	services, mocks := newTestServices(newTestConfig())
	mocks.db.On("FindWithdrawalsByUser", mock.Anything, testUserAccount, "garbage").
		Return(nil, &db.InvalidPaginationTokenError{Message: "invalid token"})

	_, _, err := services.GetWithdrawalHistory(context.Background(), testUserAccount, "garbage")

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, types.BadRequest, err.ErrorCode)
}
