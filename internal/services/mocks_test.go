package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/husd-protocol/settlement-api-service/internal/clients/ledger"
	"github.com/husd-protocol/settlement-api-service/internal/config"
	"github.com/husd-protocol/settlement-api-service/internal/db"
	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/eventbus"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

type mockDBClient struct {
	mock.Mock
}

func (m *mockDBClient) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockDBClient) SaveDepositTicket(
	ctx context.Context, scheduleId, userAccountId,
	sourceAmountUsdc, expectedHusdAmount, quotedRate, rateSequence string,
) error {
	args := m.Called(ctx, scheduleId, userAccountId, sourceAmountUsdc, expectedHusdAmount, quotedRate, rateSequence)
	return args.Error(0)
}

func (m *mockDBClient) FindDepositTicketByScheduleId(ctx context.Context, scheduleId string) (*model.DepositTicketDocument, error) {
	args := m.Called(ctx, scheduleId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DepositTicketDocument), args.Error(1)
}

func (m *mockDBClient) TransitionDepositToCompleted(
	ctx context.Context, scheduleId, completedTxId string, eligiblePreviousStates []types.DepositState,
) error {
	return m.Called(ctx, scheduleId, completedTxId, eligiblePreviousStates).Error(0)
}

func (m *mockDBClient) TransitionDepositToFailed(
	ctx context.Context, scheduleId, reason string, eligiblePreviousStates []types.DepositState,
) error {
	return m.Called(ctx, scheduleId, reason, eligiblePreviousStates).Error(0)
}

func (m *mockDBClient) SaveWithdrawal(ctx context.Context, document *model.WithdrawalDocument) error {
	return m.Called(ctx, document).Error(0)
}

func (m *mockDBClient) FindWithdrawalByRequestId(ctx context.Context, requestId string) (*model.WithdrawalDocument, error) {
	args := m.Called(ctx, requestId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WithdrawalDocument), args.Error(1)
}

func (m *mockDBClient) FindProcessableWithdrawals(ctx context.Context, now time.Time) ([]model.WithdrawalDocument, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WithdrawalDocument), args.Error(1)
}

func (m *mockDBClient) TransitionWithdrawalState(
	ctx context.Context, requestId string, newState types.WithdrawalState,
	eligiblePreviousStates []types.WithdrawalState, completedTxId, failureReason string,
) error {
	return m.Called(ctx, requestId, newState, eligiblePreviousStates, completedTxId, failureReason).Error(0)
}

func (m *mockDBClient) FindWithdrawalsByUser(
	ctx context.Context, userAccountId string, paginationToken string,
) (*db.DbResultMap[model.WithdrawalDocument], error) {
	args := m.Called(ctx, userAccountId, paginationToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.DbResultMap[model.WithdrawalDocument]), args.Error(1)
}

func (m *mockDBClient) SaveUnprocessableMessage(ctx context.Context, messageBody, receipt string) error {
	return m.Called(ctx, messageBody, receipt).Error(0)
}

func (m *mockDBClient) FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UnprocessableMessageDocument), args.Error(1)
}

func (m *mockDBClient) DeleteUnprocessableMessage(ctx context.Context, receipt interface{}) error {
	return m.Called(ctx, receipt).Error(0)
}

type mockLedgerClient struct {
	mock.Mock
}

func (m *mockLedgerClient) CreateScheduledTransfer(ctx context.Context, legs []ledger.TransferLeg, memo string) (string, *types.Error) {
	args := m.Called(ctx, legs, memo)
	if args.Get(1) == nil {
		return args.String(0), nil
	}
	return args.String(0), args.Get(1).(*types.Error)
}

func (m *mockLedgerClient) SignAndExecuteSchedule(ctx context.Context, scheduleId, signatureProof string) (string, *types.Error) {
	args := m.Called(ctx, scheduleId, signatureProof)
	if args.Get(1) == nil {
		return args.String(0), nil
	}
	return args.String(0), args.Get(1).(*types.Error)
}

func (m *mockLedgerClient) Transfer(ctx context.Context, legs []ledger.TransferLeg, memo string) (string, *types.Error) {
	args := m.Called(ctx, legs, memo)
	if args.Get(1) == nil {
		return args.String(0), nil
	}
	return args.String(0), args.Get(1).(*types.Error)
}

func (m *mockLedgerClient) VerifyIncomingTransfer(
	ctx context.Context, from, to, tokenId string, amountMinor int64, since time.Time,
) (bool, *types.Error) {
	args := m.Called(ctx, from, to, tokenId, amountMinor, since)
	if args.Get(1) == nil {
		return args.Bool(0), nil
	}
	return args.Bool(0), args.Get(1).(*types.Error)
}

func (m *mockLedgerClient) GetBalance(ctx context.Context, accountId, tokenId string) (int64, *types.Error) {
	args := m.Called(ctx, accountId, tokenId)
	if args.Get(1) == nil {
		return args.Get(0).(int64), nil
	}
	return args.Get(0).(int64), args.Get(1).(*types.Error)
}

type mockRateLogClient struct {
	mock.Mock
}

func (m *mockRateLogClient) Latest(ctx context.Context) (*types.ExchangeRate, *types.Error) {
	args := m.Called(ctx)
	var rate *types.ExchangeRate
	if args.Get(0) != nil {
		rate = args.Get(0).(*types.ExchangeRate)
	}
	if args.Get(1) == nil {
		return rate, nil
	}
	return rate, args.Get(1).(*types.Error)
}

func (m *mockRateLogClient) History(ctx context.Context, limit int) ([]types.ExchangeRate, *types.Error) {
	args := m.Called(ctx, limit)
	var rates []types.ExchangeRate
	if args.Get(0) != nil {
		rates = args.Get(0).([]types.ExchangeRate)
	}
	if args.Get(1) == nil {
		return rates, nil
	}
	return rates, args.Get(1).(*types.Error)
}

type mockAuditLogClient struct {
	mock.Mock
}

func (m *mockAuditLogClient) Publish(ctx context.Context, recordType string, payload interface{}) (string, *types.Error) {
	args := m.Called(ctx, recordType, payload)
	if args.Get(1) == nil {
		return args.String(0), nil
	}
	return args.String(0), args.Get(1).(*types.Error)
}

type mockNotifierClient struct {
	mock.Mock
}

func (m *mockNotifierClient) Notify(ctx context.Context, event types.SettlementEvent) {
	m.Called(ctx, event)
}

type testMocks struct {
	db       *mockDBClient
	ledger   *mockLedgerClient
	rateLog  *mockRateLogClient
	auditLog *mockAuditLogClient
	notifier *mockNotifierClient
	bus      *eventbus.Bus
	now      time.Time
}

const (
	testUserAccount      = "0.0.1001"
	testTreasuryAccount  = "0.0.2001"
	testEmissionsAccount = "0.0.2002"
	testInstantPool      = "0.0.2003"
	testStandardPool     = "0.0.2004"
	testUsdcToken        = "0.0.3001"
	testHusdToken        = "0.0.3002"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Ledger: config.LedgerConfig{
			TreasuryAccountID:     testTreasuryAccount,
			EmissionsAccountID:    testEmissionsAccount,
			InstantPoolAccountID:  testInstantPool,
			StandardPoolAccountID: testStandardPool,
			UsdcTokenID:           testUsdcToken,
			HusdTokenID:           testHusdToken,
		},
		Settlement: config.SettlementConfig{
			InstantFeeRate:       "0.05",
			MinDepositUsdc:       "10",
			StandardLockDuration: 48 * time.Hour,
			TransferLookback:     time.Hour,
			UsdcDecimals:         6,
			HusdDecimals:         8,
			WorkerInterval:       60,
		},
	}
	if err := cfg.Settlement.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

func newTestServices(cfg *config.Config) (*Services, *testMocks) {
	mocks := &testMocks{
		db:       &mockDBClient{},
		ledger:   &mockLedgerClient{},
		rateLog:  &mockRateLogClient{},
		auditLog: &mockAuditLogClient{},
		notifier: &mockNotifierClient{},
		bus:      eventbus.New(),
		now:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	services := &Services{
		DbClient: mocks.db,
		cfg:      cfg,
		ledger:   mocks.ledger,
		rateLog:  mocks.rateLog,
		auditLog: mocks.auditLog,
		notifier: mocks.notifier,
		eventBus: mocks.bus,
		now:      func() time.Time { return mocks.now },
	}
	return services, mocks
}
