package auditlog

import (
	"context"
	"net/http"

	baseclient "github.com/husd-protocol/settlement-api-service/internal/clients/base"
	"github.com/husd-protocol/settlement-api-service/internal/config"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// Client appends records to the externally-ordered, append-only audit topic.
// Records are never updated or deleted; a later record supersedes an earlier one.
type Client interface {
	Publish(ctx context.Context, recordType string, payload interface{}) (string, *types.Error)
}

type TopicClient struct {
	config     *config.AuditLogConfig
	httpClient *http.Client
}

func NewTopicClient(config *config.AuditLogConfig) *TopicClient {
	httpClient := &http.Client{}
	return &TopicClient{
		config,
		httpClient,
	}
}

// Necessary for the BaseClient interface
func (c *TopicClient) GetBaseURL() string {
	return c.config.BaseURL
}

func (c *TopicClient) GetDefaultRequestTimeout() int {
	return c.config.Timeout
}

func (c *TopicClient) GetHttpClient() *http.Client {
	return c.httpClient
}

type publishRequest struct {
	RecordType string      `json:"record_type"`
	Payload    interface{} `json:"payload"`
}

type publishResponse struct {
	TxID string `json:"tx_id"`
}

func (c *TopicClient) Publish(ctx context.Context, recordType string, payload interface{}) (string, *types.Error) {
	input := &publishRequest{RecordType: recordType, Payload: payload}
	opts := &baseclient.BaseClientOptions{
		Path:                 "/v1/topic/messages",
		UnavailableErrorCode: types.LedgerUnavailable,
		RejectedErrorCode:    types.LedgerRejected,
	}
	resp, err := baseclient.SendRequest[publishRequest, publishResponse](
		ctx, c, http.MethodPost, opts, input,
	)
	if err != nil {
		return "", err
	}
	return resp.TxID, nil
}
