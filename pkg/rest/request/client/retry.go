package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"
)

type retryClientOption func(c *Retry) error

type Retry struct {
	client     HTTPClient
	Retryable  func(*http.Response, error) bool
	MaxRetries int
	Backoff    time.Duration // grows linearly with each attempt
}

func NewRetryClient(baseClient HTTPClient, opts ...retryClientOption) (HTTPClient, error) {
	client := &Retry{
		client:     baseClient,
		MaxRetries: 3,
		Retryable:  RetryOnConnectionError,
	}

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, fmt.Errorf("could not create client: %w", err)
		}
	}

	return client, nil
}

// RetryOnConnectionError retries only when the connection could not be
// established, so the server never saw the request. Timeouts and any response
// are final: the server may already have applied a mutation.
func RetryOnConnectionError(resp *http.Response, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (c *Retry) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	for count := 1; c.Retryable(resp, err) && count <= c.MaxRetries; count++ {
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		if req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, fmt.Errorf("unable to replay request body: %w", bodyErr)
			}
			req.Body = body
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(c.Backoff * time.Duration(count)):
		}
		resp, err = c.client.Do(req)
	}

	return resp, err
}
