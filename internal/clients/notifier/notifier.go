package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/husd-protocol/settlement-api-service/internal/config"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// Client delivers chat-bot alerts. Fire-and-forget: a failed notification is logged
// and swallowed, it never fails the settlement that triggered it.
type Client interface {
	Notify(ctx context.Context, event types.SettlementEvent)
}

type WebhookClient struct {
	config     *config.NotifierConfig
	httpClient *http.Client
}

func NewWebhookClient(config *config.NotifierConfig) *WebhookClient {
	httpClient := &http.Client{
		Timeout: time.Duration(config.Timeout) * time.Millisecond,
	}
	return &WebhookClient{
		config,
		httpClient,
	}
}

func (c *WebhookClient) Notify(ctx context.Context, event types.SettlementEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to marshal notification event")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.WebhookURL, bytes.NewBuffer(body))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to build notification request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("eventType", event.Type.ToString()).Msg("notification delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		log.Ctx(ctx).Warn().Int("status", resp.StatusCode).Str("eventType", event.Type.ToString()).Msg("notification rejected by webhook")
	}
}
