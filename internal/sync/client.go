package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eberechi/shopsync-backend/pkg/logger"
)

const (
	apiKeyHeader       = "X-API-Key"
	defaultDataTimeout = 30 * time.Second
	snippetLimit       = 200
)

// Client wraps outbound calls to the central sync API. Every failure comes
// back as a *RemoteError so callers can tell network trouble, HTTP rejections
// and garbage bodies apart without touching net/http internals.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultDataTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured remote base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, payload, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &RemoteError{Kind: KindMalformed, Message: "failed to encode request body", Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return &RemoteError{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Remote call failed", map[string]interface{}{
			"method": method,
			"url":    url,
			"error":  err.Error(),
		})
		return &RemoteError{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{Kind: KindNetwork, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{
			Kind:       KindHTTP,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(body, resp.StatusCode),
			Body:       body,
		}
	}

	if out == nil {
		return nil
	}

	// An empty 200 body on a data endpoint is always a server fault; zero
	// rows come back as [], never as nothing.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &RemoteError{
			Kind:       KindMalformed,
			StatusCode: resp.StatusCode,
			Message:    "server returned no data",
		}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return &RemoteError{
			Kind:       KindMalformed,
			StatusCode: resp.StatusCode,
			Message:    "response is not valid JSON",
			Snippet:    snippet(trimmed),
			Err:        err,
		}
	}
	return nil
}

// serverMessage pulls the {message} field out of an error body when the
// server sent one, falling back to the HTTP status text.
func serverMessage(body []byte, status int) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return http.StatusText(status)
}

func snippet(body []byte) string {
	if len(body) > snippetLimit {
		return string(body[:snippetLimit]) + "..."
	}
	return string(body)
}
