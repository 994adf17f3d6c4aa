package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/logger"
)

// ErrResponseTooLarge is returned when a response body exceeds the caller's limit
var ErrResponseTooLarge = errors.New("response body too large")

// StatusError is returned when the server answers with an unexpected status code
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// HTTPClient defines an interface for HTTP client operations to enable mocking
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// Get performs a GET request and unmarshals the JSON response into result
	Get(ctx context.Context, url string, result interface{}) error

	// GetBytes performs a GET request with the given headers and returns the raw body.
	// Bodies larger than maxBytes fail with ErrResponseTooLarge, 0 disables the limit.
	GetBytes(ctx context.Context, url string, headers http.Header, maxBytes int64) ([]byte, error)

	// PostJSON posts body encoded as JSON and unmarshals the JSON response into result
	PostJSON(ctx context.Context, url string, body interface{}, result interface{}) error
}

// RealHTTPClient implements HTTPClient using the standard http package
type RealHTTPClient struct {
	client          *http.Client
	maxRetryElapsed time.Duration
}

// HTTPClientOption configures a RealHTTPClient
type HTTPClientOption func(*RealHTTPClient)

// WithMaxRetryElapsed bounds the total time spent retrying a request.
// Zero or less disables retries, the request is attempted once.
func WithMaxRetryElapsed(d time.Duration) HTTPClientOption {
	return func(c *RealHTTPClient) {
		c.maxRetryElapsed = d
	}
}

// NewHTTPClient creates a new real HTTP client
func NewHTTPClient(timeout time.Duration, opts ...HTTPClientOption) HTTPClient {
	c := &RealHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		maxRetryElapsed: 1 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// backOff returns the retry policy bounded by maxRetryElapsed
func (c *RealHTTPClient) backOff() backoff.BackOff {
	if c.maxRetryElapsed <= 0 {
		return &backoff.StopBackOff{}
	}

	b := backoff.NewExponentialBackOff()
	// Short bounds still leave room for a few attempts
	b.InitialInterval = min(2*time.Second, c.maxRetryElapsed/4)
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = c.maxRetryElapsed
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5 // Add jitter to prevent thundering herd
	return b
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry for
// network errors and rate limiting. newRequest is called once per attempt.
func (c *RealHTTPClient) doRequestWithRetry(ctx context.Context, newRequest func() (*http.Request, error), maxBytes int64) ([]byte, error) {
	var respBody []byte

	operation := func() error {
		req, err := newRequest()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			// Network errors are retryable unless the context is done
			if ctx.Err() != nil {
				return backoff.Permanent(fmt.Errorf("failed to perform request: %w", err))
			}
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", zap.Error(err), zap.String("url", req.URL.String()))
			}
		}()

		// Handle rate limiting - retry with backoff
		if resp.StatusCode == http.StatusTooManyRequests {
			logger.Warn("rate limited, retrying with backoff", zap.String("url", req.URL.String()))
			return fmt.Errorf("rate limited (429), retrying")
		}

		// Other non-2xx status codes are permanent errors
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, Body: string(body)})
		}

		reader := io.Reader(resp.Body)
		if maxBytes > 0 {
			reader = io.LimitReader(resp.Body, maxBytes+1)
		}
		respBody, err = io.ReadAll(reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}
		if maxBytes > 0 && int64(len(respBody)) > maxBytes {
			return backoff.Permanent(fmt.Errorf("%w: limit %d bytes", ErrResponseTooLarge, maxBytes))
		}

		return nil
	}

	// Execute with retry and context support
	if err := backoff.Retry(operation, backoff.WithContext(c.backOff(), ctx)); err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}

	return respBody, nil
}

// Get performs a GET request and unmarshals the response into result
// Implements exponential backoff retry for rate limiting (429) responses
func (c *RealHTTPClient) Get(ctx context.Context, url string, result interface{}) error {
	respBody, err := c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, 0)
	if err != nil {
		return err
	}

	// Decode the response
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetBytes performs a GET request and returns the raw response body
// Implements exponential backoff retry for rate limiting (429) responses
func (c *RealHTTPClient) GetBytes(ctx context.Context, url string, headers http.Header, maxBytes int64) ([]byte, error) {
	return c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for key, values := range headers {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		return req, nil
	}, maxBytes)
}

// PostJSON posts body as JSON and unmarshals the response into result
func (c *RealHTTPClient) PostJSON(ctx context.Context, url string, body interface{}, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	respBody, err := c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, 0)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
