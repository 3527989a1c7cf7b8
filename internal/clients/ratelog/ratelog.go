package ratelog

import (
	"context"
	"fmt"
	"net/http"

	baseclient "github.com/husd-protocol/settlement-api-service/internal/clients/base"
	"github.com/husd-protocol/settlement-api-service/internal/config"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

type LogClient struct {
	config     *config.RateLogConfig
	httpClient *http.Client
}

func NewLogClient(config *config.RateLogConfig) *LogClient {
	httpClient := &http.Client{}
	return &LogClient{
		config,
		httpClient,
	}
}

// Necessary for the BaseClient interface
func (c *LogClient) GetBaseURL() string {
	return c.config.BaseURL
}

func (c *LogClient) GetDefaultRequestTimeout() int {
	return c.config.Timeout
}

func (c *LogClient) GetHttpClient() *http.Client {
	return c.httpClient
}

func (c *LogClient) rateLogOptions(path string) *baseclient.BaseClientOptions {
	return &baseclient.BaseClientOptions{
		Path:                 path,
		UnavailableErrorCode: types.RateUnavailable,
		RejectedErrorCode:    types.RateUnavailable,
	}
}

func (c *LogClient) Latest(ctx context.Context) (*types.ExchangeRate, *types.Error) {
	rate, err := baseclient.SendRequest[struct{}, types.ExchangeRate](
		ctx, c, http.MethodGet, c.rateLogOptions("/v1/rates/latest"), nil,
	)
	if err != nil {
		return nil, err
	}
	if !rate.Rate.IsPositive() || rate.SequenceNumber == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusServiceUnavailable, types.RateUnavailable,
			"rate log returned a malformed rate",
		)
	}
	return rate, nil
}

func (c *LogClient) History(ctx context.Context, limit int) ([]types.ExchangeRate, *types.Error) {
	path := fmt.Sprintf("/v1/rates?limit=%d", limit)
	rates, err := baseclient.SendRequest[struct{}, []types.ExchangeRate](
		ctx, c, http.MethodGet, c.rateLogOptions(path), nil,
	)
	if err != nil {
		return nil, err
	}
	return *rates, nil
}
