package db

import (
	"context"
	"time"

	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

type DBClient interface {
	Ping(ctx context.Context) error
	SaveDepositTicket(
		ctx context.Context, scheduleId, userAccountId,
		sourceAmountUsdc, expectedHusdAmount, quotedRate, rateSequence string,
	) error
	FindDepositTicketByScheduleId(ctx context.Context, scheduleId string) (*model.DepositTicketDocument, error)
	TransitionDepositToCompleted(
		ctx context.Context, scheduleId, completedTxId string, eligiblePreviousStates []types.DepositState,
	) error
	TransitionDepositToFailed(
		ctx context.Context, scheduleId, reason string, eligiblePreviousStates []types.DepositState,
	) error
	SaveWithdrawal(ctx context.Context, document *model.WithdrawalDocument) error
	FindWithdrawalByRequestId(ctx context.Context, requestId string) (*model.WithdrawalDocument, error)
	FindProcessableWithdrawals(ctx context.Context, now time.Time) ([]model.WithdrawalDocument, error)
	TransitionWithdrawalState(
		ctx context.Context, requestId string, newState types.WithdrawalState,
		eligiblePreviousStates []types.WithdrawalState, completedTxId, failureReason string,
	) error
	FindWithdrawalsByUser(
		ctx context.Context, userAccountId string, paginationToken string,
	) (*DbResultMap[model.WithdrawalDocument], error)
	SaveUnprocessableMessage(ctx context.Context, messageBody, receipt string) error
	FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error)
	DeleteUnprocessableMessage(ctx context.Context, receipt interface{}) error
}
