package goodfire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/germanamz/steerlab/pkg/chats/message"
)

const apiPrefix = "/api/inference/v1"

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.goodfire.ai"

// Client talks to the Goodfire inference API. The zero value is not usable;
// construct with New.
type Client struct {
	BaseURL string            // API base URL (no trailing slash).
	APIKey  string            // Bearer token applied to every request.
	Client  *http.Client      // HTTP client; falls back to http.DefaultClient.
	Headers map[string]string // Extra headers applied to every request.
}

// New creates a Client for the given base URL and API key.
// Pass DefaultBaseURL for the hosted service.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
	}
}

// APIError is returned for non-2xx responses from the service.
type APIError struct {
	Status int    // HTTP status code.
	Body   string // Raw response body, if any.
}

func (e *APIError) Error() string {
	return fmt.Sprintf("goodfire: unexpected status %d: %s", e.Status, e.Body)
}

// validateRoles rejects conversations containing roles the API does not
// accept, before any network activity.
func validateRoles(msgs []message.Message) error {
	for _, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("goodfire: invalid message role %q", m.Role)
		}
	}
	return nil
}

// httpClient returns the configured client or http.DefaultClient.
func (c *Client) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}

	return http.DefaultClient
}

// newRequest builds an *http.Request with the base URL, bearer auth, and
// custom headers already applied.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// postJSON marshals payload, sends a POST to the given path, checks for a
// 2xx status, and returns the raw response body. Callers decode as needed;
// logits retrieval keeps the raw bytes verbatim for artifact persistence.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("goodfire: marshal payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("goodfire: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("goodfire: do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goodfire: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
