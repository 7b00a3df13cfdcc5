// Package apiclient talks to a running dnsmasq-hosts server over its REST API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vitistack/dnsmasq-hosts/internal/model"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/request"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/request/client"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/response"
)

var ErrInvalidID = errors.New("invalid id")

// APIError is a non 2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

type Client struct {
	baseURL string
	http    client.HTTPClient
	list    client.HTTPClient
}

type Option func(c *Client)

// WithListClient sets the client used for List. Only List is safe to send
// through a retrying client; mutations shift ids and must never be replayed.
func WithListClient(httpClient client.HTTPClient) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.list = httpClient
		}
	}
}

func New(baseURL string, httpClient client.HTTPClient, opts ...Option) *Client {
	c := &Client{baseURL: baseURL, http: httpClient, list: httpClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]model.HostEntry, error) {
	var out response.Data[[]model.HostEntry]
	if err := c.post(ctx, c.list, "/get-hosts", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Add(ctx context.Context, ip, hostname string) (string, error) {
	return c.mutate(ctx, "/add-host", map[string]any{"ip": ip, "hostname": hostname})
}

func (c *Client) Delete(ctx context.Context, id int) (string, error) {
	return c.mutate(ctx, "/delete-host", map[string]any{"id": id})
}

func (c *Client) Edit(ctx context.Context, id int, ip, hostname string) (string, error) {
	return c.mutate(ctx, "/edit-host", map[string]any{"id": id, "ip": ip, "hostname": hostname})
}

func (c *Client) mutate(ctx context.Context, path string, body any) (string, error) {
	var out response.Message
	if err := c.post(ctx, c.http, path, body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) post(ctx context.Context, httpClient client.HTTPClient, path string, body, dest any) error {
	b := request.NewBuilder(c.baseURL).POST().URL(path).CTX(ctx)
	if body != nil {
		b = b.Body(body)
	}
	req, err := b.Build()
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("unable to read response from %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unable to decode response from %s: %w", path, err)
	}
	return nil
}

func decodeError(code int, data []byte) error {
	var body response.ErrorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		body.Message = string(data)
	}

	apiErr := &APIError{StatusCode: code, Message: body.Message}
	if code == http.StatusBadRequest && body.Message == "Invalid ID" {
		return fmt.Errorf("%w: %w", ErrInvalidID, apiErr)
	}
	return apiErr
}
