package config

import "fmt"

// RateLogConfig points at the public rate publication log gateway.
type RateLogConfig struct {
	BaseURL string `mapstructure:"base-url"`
	Timeout int    `mapstructure:"timeout"`
}

func (cfg *RateLogConfig) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("missing rate log base url")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("rate log timeout must be a positive integer in milliseconds")
	}
	return nil
}

// AuditLogConfig points at the append-only audit topic gateway.
type AuditLogConfig struct {
	BaseURL string `mapstructure:"base-url"`
	Timeout int    `mapstructure:"timeout"`
}

func (cfg *AuditLogConfig) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("missing audit log base url")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("audit log timeout must be a positive integer in milliseconds")
	}
	return nil
}

// NotifierConfig points at the chat-bot notification webhook. Notification delivery
// is best-effort, so a misconfigured notifier only degrades alerts, never settlement.
type NotifierConfig struct {
	WebhookURL string `mapstructure:"webhook-url"`
	Timeout    int    `mapstructure:"timeout"`
}

func (cfg *NotifierConfig) Validate() error {
	if cfg.WebhookURL == "" {
		return fmt.Errorf("missing notifier webhook url")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("notifier timeout must be a positive integer in milliseconds")
	}
	return nil
}
