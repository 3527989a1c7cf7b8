package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/husd-protocol/settlement-api-service/cmd/settlement-api-service/cli"
	"github.com/husd-protocol/settlement-api-service/cmd/settlement-api-service/scripts"
	"github.com/husd-protocol/settlement-api-service/internal/api"
	"github.com/husd-protocol/settlement-api-service/internal/clients"
	"github.com/husd-protocol/settlement-api-service/internal/config"
	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/eventbus"
	"github.com/husd-protocol/settlement-api-service/internal/observability/healthcheck"
	"github.com/husd-protocol/settlement-api-service/internal/observability/metrics"
	"github.com/husd-protocol/settlement-api-service/internal/queue"
	"github.com/husd-protocol/settlement-api-service/internal/services"
	"github.com/husd-protocol/settlement-api-service/internal/types"
	"github.com/husd-protocol/settlement-api-service/internal/worker"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx := context.Background()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	err = model.Setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up settlement db model")
	}

	externalClients := clients.New(cfg)
	eventBus := eventbus.New()

	services, err := services.New(ctx, cfg, externalClients, eventBus)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up settlement services layer")
	}

	// Start the event queue processing
	queues := queue.New(cfg.Queue, services)

	subscribeDefaultEventHandlers(eventBus, externalClients, queues)

	// Check if the replay flag is set
	if cli.GetReplayFlag() {
		log.Info().Msg("Replay flag is set. Starting replay of unprocessable messages.")
		err := scripts.ReplayUnprocessableMessages(ctx, cfg, queues, services.DbClient)
		if err != nil {
			log.Fatal().Err(err).Msg("error while replaying unprocessable messages")
		}
		return
	}

	queues.StartReceivingMessages()

	if err := healthcheck.StartHealthCheckCron(ctx, queues, cfg.Server.HealthCheckInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	if err := worker.StartWithdrawalWorkerCron(ctx, services, cfg.Settlement.WorkerInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting withdrawal worker cron")
	}

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up settlement api service")
	}
	if err = apiServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("error while starting settlement api service")
	}
}

// subscribeDefaultEventHandlers wires the standing consumers of settlement lifecycle
// events: the audit trail mirror, the user-facing notifier and the downstream events
// queue. Handlers run asynchronously, so none of them can block settlement itself.
func subscribeDefaultEventHandlers(bus *eventbus.Bus, externalClients *clients.Clients, queues *queue.Queues) {
	allEventTypes := []types.EventType{
		types.EventDepositInitiated,
		types.EventDepositCompleted,
		types.EventDepositFailed,
		types.EventWithdrawalRequested,
		types.EventWithdrawalCompleted,
		types.EventWithdrawalFailed,
	}

	for _, eventType := range allEventTypes {
		bus.Subscribe(eventType, "audit_log_mirror", func(ctx context.Context, event types.SettlementEvent) error {
			_, err := externalClients.AuditLog.Publish(ctx, event.Type.ToString(), event)
			if err != nil {
				return err
			}
			return nil
		})
		bus.Subscribe(eventType, "settlement_events_queue", func(ctx context.Context, event types.SettlementEvent) error {
			return queues.PublishSettlementEvent(ctx, event)
		})
	}

	// Users only get notified about terminal outcomes.
	terminalEventTypes := []types.EventType{
		types.EventDepositCompleted,
		types.EventDepositFailed,
		types.EventWithdrawalCompleted,
		types.EventWithdrawalFailed,
	}
	for _, eventType := range terminalEventTypes {
		bus.Subscribe(eventType, "user_notifier", func(ctx context.Context, event types.SettlementEvent) error {
			externalClients.Notifier.Notify(ctx, event)
			return nil
		})
	}
}
