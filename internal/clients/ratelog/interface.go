package ratelog

import (
	"context"
	"net/http"

	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// Client reads the public rate publication log. Read-only: the service never
// publishes rates, it only anchors settlement against them.
type Client interface {
	// Latest returns the most recently published exchange rate.
	Latest(ctx context.Context) (*types.ExchangeRate, *types.Error)
	// History returns up to limit most recent rates, newest first.
	History(ctx context.Context, limit int) ([]types.ExchangeRate, *types.Error)
}

type LogClientInterface interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() int
	GetHttpClient() *http.Client
	Client
}
