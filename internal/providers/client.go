package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultSystemPrompt = "You are a helpful AI Coach."

// ChatMessage is one turn of an OpenAI-style conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a normalized generation request.
type ChatRequest struct {
	Messages     []ChatMessage
	SystemPrompt string
}

// UpstreamError is returned when the provider responds with a non-2xx
// status. Body carries the provider's error payload for logging; it is not
// forwarded to end users.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

// Client issues streaming chat-completion calls to upstream providers.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a provider client. timeout bounds the whole upstream
// exchange including the streamed body.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Stream sends the chat request to the routed provider and returns the raw
// response body for byte-for-byte forwarding. The request is bound to ctx,
// so cancelling the inbound connection aborts the upstream call instead of
// leaking it. The caller owns the returned ReadCloser.
func (c *Client) Stream(ctx context.Context, route Route, apiKey string, req ChatRequest) (io.ReadCloser, error) {
	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	messages := make([]ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, req.Messages...)

	body, err := json.Marshal(map[string]any{
		"model":    route.Model,
		"messages": messages,
		"stream":   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, route.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(errorBody)}
	}

	return resp.Body, nil
}
