package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/husd-protocol/settlement-api-service/internal/services"
)

// StartWithdrawalWorkerCron periodically settles standard withdrawals whose time lock
// has passed. The settlement pass is idempotent, so overlapping or repeated runs after
// a crash are safe.
func StartWithdrawalWorkerCron(ctx context.Context, services *services.Services, intervalSeconds int) error {
	c := cron.New()
	log.Info().Msg("Initiated Withdrawal Worker Cron")

	if intervalSeconds == 0 {
		intervalSeconds = 60
	}

	cronSpec := fmt.Sprintf("@every %ds", intervalSeconds)

	_, err := c.AddFunc(cronSpec, func() {
		processPendingWithdrawals(ctx, services)
	})
	if err != nil {
		return err
	}

	c.Start()

	go func() {
		<-ctx.Done()
		log.Info().Msg("Stopping Withdrawal Worker Cron")
		c.Stop()
	}()

	return nil
}

func processPendingWithdrawals(ctx context.Context, services *services.Services) {
	result, err := services.ProcessPendingWithdrawals(ctx)
	if err != nil {
		log.Error().Err(err).Msg("withdrawal worker run failed")
		return
	}
	if result.Processed > 0 {
		log.Info().
			Int("processed", result.Processed).
			Int("completed", result.Completed).
			Int("failed", result.Failed).
			Msg("withdrawal worker run finished")
	}
}
