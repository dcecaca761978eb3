package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
)

// Caller performs one logical exchange, repeating it on transport errors.
// It never inspects the HTTP status; every status yields a Response.
type Caller struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     zerolog.Logger
	metrics    *Metrics
}

// NewCaller creates a Caller. maxRetries is the number of repeats after the
// first attempt.
func NewCaller(client *http.Client, maxRetries int, retryDelay time.Duration, logger zerolog.Logger) *Caller {
	if client == nil {
		client = newHTTPClient(DefaultMaxConnections, DefaultTimeout)
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Caller{
		client:     client,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Execute sends req and parses the body. On exhaustion the last transport
// error is returned inside a *TransportError.
func (c *Caller) Execute(ctx context.Context, req *Request) (*Response, error) {
	var (
		resp     *Response
		attempts int
	)

	err := retry.Do(
		func() error {
			attempts++
			if c.metrics != nil {
				c.metrics.Attempts.Inc()
			}
			r, err := c.attempt(ctx, req)
			if err != nil {
				return err
			}
			resp = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries+1)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// Per-attempt timeouts are retried; the caller's context is not.
			return retry.IsRecoverable(err) && ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			// Also called after the final attempt, when nothing follows
			if n >= uint(c.maxRetries) {
				return
			}
			if c.metrics != nil {
				c.metrics.Retries.Inc()
			}
			c.logger.Debug().
				Err(err).
				Str("method", req.Method).
				Str("url", req.URL).
				Uint("attempt", n+1).
				Msg("Transport error, retrying")
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{
			Method:   req.Method,
			URL:      req.URL,
			Attempts: attempts,
			Err:      err,
		}
	}
	return resp, nil
}

// attempt performs a single network exchange.
func (c *Caller) attempt(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = strings.NewReader(req.Body.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.FullURL(), body)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		URL:     req.URL,
		Status:  httpResp.StatusCode,
		Success: httpResp.StatusCode >= 200 && httpResp.StatusCode <= 299,
		Header:  httpResp.Header,
		Payload: parseBody(httpResp.Header, raw),
		Result:  ResultData,
	}, nil
}
