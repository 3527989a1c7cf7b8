package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/husd-protocol/settlement-api-service/internal/config"
	"github.com/husd-protocol/settlement-api-service/internal/observability/metrics"
	"github.com/husd-protocol/settlement-api-service/internal/queue/client"
	"github.com/husd-protocol/settlement-api-service/internal/queue/handlers"
	"github.com/husd-protocol/settlement-api-service/internal/services"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

type MessageHandler func(ctx context.Context, messageBody string) *types.Error

type Queues struct {
	ScheduleSignedQueueClient  client.QueueClient
	SettlementEventQueueClient client.QueueClient
	Handlers                   *handlers.QueueHandler
	processingTimeout          time.Duration
}

func New(cfg config.QueueConfig, service *services.Services) *Queues {
	scheduleSignedQueueClient, err := client.NewQueueClient(
		cfg.Url, cfg.QueueUser, cfg.QueuePassword, cfg.ScheduleSignedQueueName,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating ScheduleSignedQueueClient")
	}
	settlementEventQueueClient, err := client.NewQueueClient(
		cfg.Url, cfg.QueueUser, cfg.QueuePassword, cfg.SettlementEventQueueName,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating SettlementEventQueueClient")
	}
	handlers := handlers.NewQueueHandler(service)
	return &Queues{
		ScheduleSignedQueueClient:  scheduleSignedQueueClient,
		SettlementEventQueueClient: settlementEventQueueClient,
		Handlers:                   handlers,
		processingTimeout:          time.Duration(cfg.QueueProcessingTimeout) * time.Second,
	}
}

// Start all message processing
func (q *Queues) StartReceivingMessages() {
	// start processing co-signature callbacks from the ledger gateway
	startQueueMessageProcessing(q.ScheduleSignedQueueClient, q.Handlers.ScheduleSignedHandler, q.Handlers, log.Logger, q.processingTimeout)
	// ...add more queues here
}

// Turn off all message processing
func (q *Queues) StopReceivingMessages() {
	if err := q.ScheduleSignedQueueClient.Stop(); err != nil {
		log.Error().Err(err).Str("queueName", q.ScheduleSignedQueueClient.GetQueueName()).Msg("error while stopping queue")
	}
	if err := q.SettlementEventQueueClient.Stop(); err != nil {
		log.Error().Err(err).Str("queueName", q.SettlementEventQueueClient.GetQueueName()).Msg("error while stopping queue")
	}
}

// PublishSettlementEvent mirrors a lifecycle event to the settlement events queue for
// downstream audit and metrics consumers.
func (q *Queues) PublishSettlementEvent(ctx context.Context, event types.SettlementEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.SettlementEventQueueClient.SendMessage(ctx, string(body))
}

// IsConnectionHealthy pings every queue connection.
func (q *Queues) IsConnectionHealthy() error {
	if err := q.ScheduleSignedQueueClient.Ping(); err != nil {
		return err
	}
	return q.SettlementEventQueueClient.Ping()
}

func startQueueMessageProcessing(
	queueClient client.QueueClient, handler MessageHandler, queueHandler *handlers.QueueHandler,
	logger zerolog.Logger, timeout time.Duration,
) {
	messagesChan, err := queueClient.ReceiveMessages()
	if err != nil {
		logger.Fatal().Err(err).Str("queueName", queueClient.GetQueueName()).Msg("error setting up message channel from queue")
	}

	go func() {
		for message := range messagesChan {
			// For each message, create a new context with a deadline or timeout
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			err := handler(ctx, message.Body)
			if err != nil {
				logger.Error().Err(err).Str("queueName", queueClient.GetQueueName()).Msg("error while processing message from queue")
				metrics.RecordQueueMessage(queueClient.GetQueueName(), metrics.Error)
				if err.IsTransient() {
					if nackErr := queueClient.ReQueueMessage(message.Receipt); nackErr != nil {
						logger.Error().Err(nackErr).Str("queueName", queueClient.GetQueueName()).Msg("error while requeueing message")
					}
				} else {
					// Park the poison message for operator replay instead of redelivering it forever.
					saveErr := queueHandler.Services.SaveUnprocessableMessages(ctx, message.Body, message.Receipt)
					if saveErr == nil {
						if delErr := queueClient.DeleteMessage(message.Receipt); delErr != nil {
							logger.Error().Err(delErr).Str("queueName", queueClient.GetQueueName()).Msg("error while deleting unprocessable message from queue")
						}
					}
				}
				cancel()
				continue
			}

			metrics.RecordQueueMessage(queueClient.GetQueueName(), metrics.Success)
			delErr := queueClient.DeleteMessage(message.Receipt)
			if delErr != nil {
				logger.Error().Err(delErr).Str("queueName", queueClient.GetQueueName()).Msg("error while deleting message from queue")
			}
			cancel()
		}
	}()
}
