package clients

import (
	"github.com/husd-protocol/settlement-api-service/internal/clients/auditlog"
	"github.com/husd-protocol/settlement-api-service/internal/clients/ledger"
	"github.com/husd-protocol/settlement-api-service/internal/clients/notifier"
	"github.com/husd-protocol/settlement-api-service/internal/clients/ratelog"
	"github.com/husd-protocol/settlement-api-service/internal/config"
)

type Clients struct {
	Ledger   ledger.Client
	RateLog  ratelog.Client
	AuditLog auditlog.Client
	Notifier notifier.Client
}

func New(cfg *config.Config) *Clients {
	ledgerClient := ledger.NewGatewayClient(&cfg.Ledger)
	rateLogClient := ratelog.NewLogClient(&cfg.RateLog)
	auditLogClient := auditlog.NewTopicClient(&cfg.AuditLog)
	notifierClient := notifier.NewWebhookClient(&cfg.Notifier)

	return &Clients{
		Ledger:   ledgerClient,
		RateLog:  rateLogClient,
		AuditLog: auditLogClient,
		Notifier: notifierClient,
	}
}
