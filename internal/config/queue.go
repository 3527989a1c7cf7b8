package config

import (
	"fmt"
)

type QueueConfig struct {
	Url                      string `mapstructure:"url"`
	QueueUser                string `mapstructure:"queue-user"`
	QueuePassword            string `mapstructure:"queue-password"`
	ScheduleSignedQueueName  string `mapstructure:"schedule-signed-queue-name"`
	SettlementEventQueueName string `mapstructure:"settlement-event-queue-name"`
	QueueProcessingTimeout   int    `mapstructure:"processing-timeout"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return fmt.Errorf("missing queue url")
	}

	if cfg.QueueUser == "" {
		return fmt.Errorf("missing queue user")
	}

	if cfg.QueuePassword == "" {
		return fmt.Errorf("missing queue password")
	}

	if cfg.ScheduleSignedQueueName == "" {
		return fmt.Errorf("missing schedule signed queue name")
	}

	if cfg.SettlementEventQueueName == "" {
		return fmt.Errorf("missing settlement event queue name")
	}

	if cfg.QueueProcessingTimeout <= 0 {
		return fmt.Errorf("queue processing timeout must be a positive integer")
	}

	return nil
}
