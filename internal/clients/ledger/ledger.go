package ledger

import (
	"context"
	"net/http"
	"time"

	baseclient "github.com/husd-protocol/settlement-api-service/internal/clients/base"
	"github.com/husd-protocol/settlement-api-service/internal/config"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// GatewayClient talks to the ledger gateway, a thin HTTP proxy in front of the
// ledger SDK that holds the operator keys and exposes transfer primitives.
type GatewayClient struct {
	config     *config.LedgerConfig
	httpClient *http.Client
}

func NewGatewayClient(config *config.LedgerConfig) *GatewayClient {
	httpClient := &http.Client{}
	return &GatewayClient{
		config,
		httpClient,
	}
}

// Necessary for the BaseClient interface
func (c *GatewayClient) GetBaseURL() string {
	return c.config.BaseURL
}

func (c *GatewayClient) GetDefaultRequestTimeout() int {
	return c.config.Timeout
}

func (c *GatewayClient) GetHttpClient() *http.Client {
	return c.httpClient
}

func (c *GatewayClient) ledgerOptions(path string) *baseclient.BaseClientOptions {
	return &baseclient.BaseClientOptions{
		Path:                 path,
		UnavailableErrorCode: types.LedgerUnavailable,
		RejectedErrorCode:    types.LedgerRejected,
	}
}

type createScheduleRequest struct {
	Legs []TransferLeg `json:"legs"`
	Memo string        `json:"memo,omitempty"`
}

type createScheduleResponse struct {
	ScheduleID string `json:"schedule_id"`
}

func (c *GatewayClient) CreateScheduledTransfer(
	ctx context.Context, legs []TransferLeg, memo string,
) (string, *types.Error) {
	input := &createScheduleRequest{Legs: legs, Memo: memo}
	resp, err := baseclient.SendRequest[createScheduleRequest, createScheduleResponse](
		ctx, c, http.MethodPost, c.ledgerOptions("/v1/schedules"), input,
	)
	if err != nil {
		return "", err
	}
	return resp.ScheduleID, nil
}

type executeScheduleRequest struct {
	ScheduleID     string `json:"schedule_id"`
	SignatureProof string `json:"signature_proof"`
}

type executeScheduleResponse struct {
	TxID string `json:"tx_id"`
}

func (c *GatewayClient) SignAndExecuteSchedule(
	ctx context.Context, scheduleId, signatureProof string,
) (string, *types.Error) {
	input := &executeScheduleRequest{ScheduleID: scheduleId, SignatureProof: signatureProof}
	resp, err := baseclient.SendRequest[executeScheduleRequest, executeScheduleResponse](
		ctx, c, http.MethodPost, c.ledgerOptions("/v1/schedules/execute"), input,
	)
	if err != nil {
		return "", err
	}
	return resp.TxID, nil
}

type transferRequest struct {
	Legs []TransferLeg `json:"legs"`
	Memo string        `json:"memo,omitempty"`
}

type transferResponse struct {
	TxID string `json:"tx_id"`
}

func (c *GatewayClient) Transfer(ctx context.Context, legs []TransferLeg, memo string) (string, *types.Error) {
	input := &transferRequest{Legs: legs, Memo: memo}
	resp, err := baseclient.SendRequest[transferRequest, transferResponse](
		ctx, c, http.MethodPost, c.ledgerOptions("/v1/transfers"), input,
	)
	if err != nil {
		return "", err
	}
	return resp.TxID, nil
}

type verifyTransferRequest struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	TokenID     string    `json:"token_id"`
	AmountMinor int64     `json:"amount_minor"`
	Since       time.Time `json:"since"`
}

type verifyTransferResponse struct {
	Found bool `json:"found"`
}

func (c *GatewayClient) VerifyIncomingTransfer(
	ctx context.Context, from, to, tokenId string, amountMinor int64, since time.Time,
) (bool, *types.Error) {
	input := &verifyTransferRequest{From: from, To: to, TokenID: tokenId, AmountMinor: amountMinor, Since: since}
	resp, err := baseclient.SendRequest[verifyTransferRequest, verifyTransferResponse](
		ctx, c, http.MethodPost, c.ledgerOptions("/v1/transfers/verify"), input,
	)
	if err != nil {
		return false, err
	}
	return resp.Found, nil
}

type balanceResponse struct {
	AccountID   string `json:"account_id"`
	TokenID     string `json:"token_id"`
	AmountMinor int64  `json:"amount_minor"`
}

func (c *GatewayClient) GetBalance(ctx context.Context, accountId, tokenId string) (int64, *types.Error) {
	path := "/v1/balances/" + accountId + "/" + tokenId
	resp, err := baseclient.SendRequest[struct{}, balanceResponse](
		ctx, c, http.MethodGet, c.ledgerOptions(path), nil,
	)
	if err != nil {
		return 0, err
	}
	return resp.AmountMinor, nil
}
