package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// Platform operation names used in errors.
const (
	OpCreateCall      = "create-call"
	OpListCalls       = "list-calls"
	OpGetCall         = "get-call"
	OpUpdateAssistant = "update-assistant"
)

// Client is the Vapi REST client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Vapi client. A zero timeout leaves the transport default in place.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// errorResponse is the error body returned by the platform.
type errorResponse struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// CreateCall places an outbound call.
func (c *Client) CreateCall(ctx context.Context, req *CreateCallRequest) (*domain.Call, error) {
	var call domain.Call
	if err := c.do(ctx, OpCreateCall, http.MethodPost, "/call", req, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// ListCalls retrieves recent calls.
func (c *Client) ListCalls(ctx context.Context, opts ListCallsOptions) ([]domain.Call, error) {
	path := "/call"
	if opts.Limit > 0 {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(opts.Limit))
		path += "?" + q.Encode()
	}

	var calls []domain.Call
	if err := c.do(ctx, OpListCalls, http.MethodGet, path, nil, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}

// GetCall retrieves a call with its artifact.
func (c *Client) GetCall(ctx context.Context, id string) (*domain.Call, error) {
	var call domain.Call
	if err := c.do(ctx, OpGetCall, http.MethodGet, "/call/"+url.PathEscape(id), nil, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// UpdateAssistant patches an assistant.
func (c *Client) UpdateAssistant(ctx context.Context, id string, req *UpdateAssistantRequest) (*domain.Assistant, error) {
	var assistant domain.Assistant
	if err := c.do(ctx, OpUpdateAssistant, http.MethodPatch, "/assistant/"+url.PathEscape(id), req, &assistant); err != nil {
		return nil, err
	}
	return &assistant, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &domain.PlatformError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.PlatformError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &domain.PlatformError{Op: op, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.PlatformError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.PlatformError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &domain.PlatformError{Op: op, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	return nil
}

// errorMessage extracts a readable message from an error body. The platform
// sends either a string or a list of validation messages.
func errorMessage(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.Message) > 0 {
		var msg string
		if err := json.Unmarshal(errResp.Message, &msg); err == nil && msg != "" {
			return msg
		}
		var msgs []string
		if err := json.Unmarshal(errResp.Message, &msgs); err == nil && len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return "empty response"
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
