package routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultRetryWait = 300 * time.Millisecond

// StatusError is a non-2xx answer from an upstream service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status code: %d, response: %s", e.Code, e.Body)
}

// BaseClient is the HTTP plumbing shared by the directions and geocoding clients: a timeout per
// attempt and a bounded retry of idempotent GETs on transport errors and 5xx answers.
type BaseClient struct {
	baseURL    string
	client     *http.Client
	headers    map[string]string
	maxRetries int
	retryWait  time.Duration
}

func NewBaseClient(baseURL string, timeout time.Duration, maxRetries int) *BaseClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &BaseClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		headers:    make(map[string]string),
		maxRetries: maxRetries,
		retryWait:  defaultRetryWait,
	}
}

func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) SetRetryWait(d time.Duration) {
	c.retryWait = d
}

// Get fetches endpoint and returns the body along with the number of attempts made.
func (c *BaseClient) Get(ctx context.Context, endpoint string) ([]byte, int, error) {
	attempts := 0
	var body []byte

	operation := func() error {
		attempts++
		b, err := c.do(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			var se *StatusError
			if errors.As(err, &se) && se.Code < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryWait
	policy.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx)

	if err := backoff.Retry(operation, b); err != nil {
		return nil, attempts, err
	}
	return body, attempts, nil
}

func (c *BaseClient) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(responseBody)}
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return responseBody, nil
}
