package rewards

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/polkiloo/cinema/internal/adapter/remote"
	"github.com/polkiloo/cinema/internal/domain/model"
)

// Client credits points in the rewards ledger.
type Client interface {
	Credit(ctx context.Context, req model.CreditRequest) (*model.CreditResult, error)
}

// HTTPClient implements Client via the rewards HTTP API.
type HTTPClient struct {
	remote *remote.Client
}

type creditRequest struct {
	User           int64  `json:"user"`
	AddToScore     int64  `json:"add_to_score"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type creditResponse struct {
	User     int64 `json:"user"`
	Score    int64 `json:"score"`
	Replayed bool  `json:"replayed"`
}

// NewHTTPClient creates a rewards client for baseURL.
func NewHTTPClient(baseURL string, policy remote.Policy, logger *slog.Logger) (*HTTPClient, error) {
	client, err := remote.New("rewards", baseURL, policy, logger)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{remote: client}, nil
}

// Credit sends one credit request. Failures are *remote.Error values.
func (c *HTTPClient) Credit(ctx context.Context, req model.CreditRequest) (*model.CreditResult, error) {
	header := http.Header{}
	if req.IdempotencyKey != "" {
		header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.remote.Call(ctx, remote.Request{
		Method: http.MethodPost,
		Path:   "/rewards/add_score",
		Body: creditRequest{
			User:           req.UserID,
			AddToScore:     req.Amount,
			IdempotencyKey: req.IdempotencyKey,
		},
		Header: header,
	})
	if err != nil {
		return nil, err
	}

	var data creditResponse
	if err := resp.DecodeJSON(&data); err != nil {
		return nil, fmt.Errorf("rewards: %w", err)
	}
	return &model.CreditResult{UserID: data.User, Score: data.Score, Replayed: data.Replayed}, nil
}
