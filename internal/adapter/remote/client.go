package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/polkiloo/cinema/internal/config"
	"github.com/polkiloo/cinema/internal/metrics"
)

const maxResponseBody = 1 << 20

// Policy configures timeouts, retries and the breaker of a Client.
type Policy struct {
	Timeout          time.Duration
	Retries          int
	BackoffBase      time.Duration
	BackoffMax       time.Duration
	BreakerThreshold uint32
	BreakerCooldown  time.Duration
}

// PolicyFromConfig builds the call policy from service configuration.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		Timeout:          cfg.RequestTimeout,
		Retries:          cfg.RetryCount,
		BackoffBase:      cfg.BackoffBase,
		BackoffMax:       cfg.BackoffMax,
		BreakerThreshold: uint32(cfg.BreakerThreshold),
		BreakerCooldown:  cfg.BreakerCooldown,
	}
}

// Request describes a single outbound call. Body is encoded as JSON when set.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

// Response holds a successful (2xx) answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client calls one downstream service with per-attempt timeouts, retries with
// exponential backoff and a circuit breaker. It is safe for concurrent use.
type Client struct {
	name       string
	baseURL    *url.URL
	httpClient *http.Client
	policy     Policy
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// New creates a client for the downstream reachable at baseURL.
func New(name, baseURL string, policy Policy, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", name, err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("%s url must be absolute", name)
	}

	c := &Client{
		name:       name,
		baseURL:    parsed,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		policy:     policy,
		logger:     logger.With(slog.String("downstream", name)),
	}

	threshold := policy.BreakerThreshold
	if threshold == 0 {
		threshold = 1
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     policy.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful:  countsAsSuccess,
		OnStateChange: c.onStateChange,
	})
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return c, nil
}

// Name returns the downstream name used in errors, logs and metrics.
func (c *Client) Name() string { return c.name }

// Call performs req. Failed calls return *Error.
func (c *Client) Call(ctx context.Context, req Request) (*Response, error) {
	var payload []byte
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", c.name, err)
		}
		payload = encoded
	}

	var (
		resp    *Response
		lastErr *Error
	)

	operation := func() error {
		r, err := c.attempt(ctx, req, payload)
		if err == nil {
			resp = r
			return nil
		}
		lastErr = err
		if !c.retryable(err) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying call",
			slog.String("path", req.Path),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()))
	}

	err := backoff.RetryNotify(operation, c.newBackOff(ctx), notify)

	result := "ok"
	if err != nil {
		result = "error"
		if lastErr != nil {
			result = lastErr.Kind.String()
		}
	}
	metrics.RemoteRequests.WithLabelValues(c.name, result).Inc()

	if err == nil {
		return resp, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, transportError(c.name, err)
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.policy.BackoffBase
	exp.MaxInterval = c.policy.BackoffMax
	exp.MaxElapsedTime = 0
	exp.Reset()

	retries := c.policy.Retries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// Unavailable fails fast and rejections will not change on retry.
func (c *Client) retryable(err *Error) bool {
	return err.Kind != KindRemoteRejected && err.Kind != KindUnavailable && err.Kind != KindCanceled
}

func (c *Client) attempt(ctx context.Context, req Request, payload []byte) (*Response, *Error) {
	if err := ctx.Err(); err != nil {
		return nil, canceledError(c.name, err)
	}
	result, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.do(ctx, req, payload)
		// The per-attempt deadline lives inside do, so ctx only ends when the caller quits.
		if err != nil && ctx.Err() != nil {
			return nil, canceledError(c.name, ctx.Err())
		}
		return resp, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &Error{Downstream: c.name, Kind: KindUnavailable, Err: err}
		}
		var callErr *Error
		if errors.As(err, &callErr) {
			return nil, callErr
		}
		return nil, transportError(c.name, err)
	}
	return result.(*Response), nil
}

func (c *Client) do(ctx context.Context, req Request, payload []byte) (*Response, error) {
	if c.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.policy.Timeout)
		defer cancel()
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, req.Path)
	if len(req.Query) > 0 {
		endpoint.RawQuery = req.Query.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", c.name, err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	metrics.RemoteRequestDuration.WithLabelValues(c.name).Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, transportError(c.name, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, transportError(c.name, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.logger.Debug("call failed",
			slog.String("path", req.Path),
			slog.Int("status", httpResp.StatusCode),
			slog.String("body", string(data)))
		return nil, statusError(c.name, httpResp.StatusCode)
	}

	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

func (c *Client) onStateChange(name string, from, to gobreaker.State) {
	c.logger.Warn("circuit breaker state changed",
		slog.String("from", from.String()),
		slog.String("to", to.String()))

	switch to {
	case gobreaker.StateClosed:
		metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	case gobreaker.StateOpen:
		metrics.CircuitBreakerState.WithLabelValues(name).Set(1)
		metrics.CircuitBreakerTrips.WithLabelValues(name).Inc()
	case gobreaker.StateHalfOpen:
		metrics.CircuitBreakerState.WithLabelValues(name).Set(2)
	}
}

// countsAsSuccess keeps client-side rejections and abandoned calls from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var callErr *Error
	if !errors.As(err, &callErr) {
		return false
	}
	return callErr.Kind == KindRemoteRejected || callErr.Kind == KindCanceled
}
