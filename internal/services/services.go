package services

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/husd-protocol/settlement-api-service/internal/clients"
	"github.com/husd-protocol/settlement-api-service/internal/clients/auditlog"
	"github.com/husd-protocol/settlement-api-service/internal/clients/ledger"
	"github.com/husd-protocol/settlement-api-service/internal/clients/notifier"
	"github.com/husd-protocol/settlement-api-service/internal/clients/ratelog"
	"github.com/husd-protocol/settlement-api-service/internal/config"
	"github.com/husd-protocol/settlement-api-service/internal/db"
	"github.com/husd-protocol/settlement-api-service/internal/eventbus"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// Service layer contains the settlement coordination logic and is used to interact
// with the database and the external ledger, rate log, audit log and notifier.
// All collaborators are injected; there is no hidden process-wide state.
type Services struct {
	DbClient db.DBClient
	cfg      *config.Config
	ledger   ledger.Client
	rateLog  ratelog.Client
	auditLog auditlog.Client
	notifier notifier.Client
	eventBus *eventbus.Bus
	// now is the clock used for time-lock decisions, overridable in tests.
	now func() time.Time
}

func New(ctx context.Context, cfg *config.Config, clients *clients.Clients, eventBus *eventbus.Bus) (*Services, error) {
	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("error while creating db client")
		return nil, err
	}
	return &Services{
		DbClient: dbClient,
		cfg:      cfg,
		ledger:   clients.Ledger,
		rateLog:  clients.RateLog,
		auditLog: clients.AuditLog,
		notifier: clients.Notifier,
		eventBus: eventBus,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// DoHealthCheck checks the health of the services by ping the database.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	return s.DbClient.Ping(ctx)
}

func (s *Services) SaveUnprocessableMessages(ctx context.Context, messageBody, receipt string) error {
	err := s.DbClient.SaveUnprocessableMessage(ctx, messageBody, receipt)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while saving unprocessable message")
		return types.NewErrorWithMsg(http.StatusInternalServerError, types.InternalServiceError, "error while saving unprocessable message")
	}
	return nil
}

func (s *Services) publishEvent(ctx context.Context, event types.SettlementEvent) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}
