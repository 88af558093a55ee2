// Package assistant mediates between the console and an external
// OpenAI-compatible chat completion service. Client is the wire-level
// part; Session keeps the bounded conversation transcript.
package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Transcript roles, in the order they may appear: exactly one system
// entry first, then alternating user and assistant entries.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ErrorKind classifies completion failures.
type ErrorKind string

const (
	// KindNetwork covers transport failures and non-OK service replies.
	KindNetwork ErrorKind = "network"
	// KindQuota means the service refused the call for rate or quota
	// reasons (HTTP 429). There is no retry here; the caller decides.
	KindQuota ErrorKind = "quota"
	// KindMalformed means the service replied with a body this client
	// cannot interpret.
	KindMalformed ErrorKind = "malformed"
)

// CompletionError is any failure talking to the completion service.
type CompletionError struct {
	Kind ErrorKind
	Err  error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion %s error: %v", e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// Config carries the completion service parameters. The API key comes
// from the embedding environment and must never be logged.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns service defaults for the given key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 2 * time.Minute,
	}
}

// Client talks to an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient builds a Client from config, filling unset fields from
// DefaultConfig.
func NewClient(cfg Config) *Client {
	def := DefaultConfig(cfg.APIKey)
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string { return c.model }

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Complete sends the whole transcript and returns the assistant reply.
// One failure is surfaced immediately; retrying is the caller's call.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.post(ctx, chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CompletionError{Kind: KindNetwork, Err: err}
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		return "", err
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &CompletionError{Kind: KindMalformed, Err: err}
	}
	if out.Error != nil {
		return "", apiToCompletionError(out.Error)
	}
	if len(out.Choices) == 0 {
		return "", &CompletionError{Kind: KindMalformed, Err: fmt.Errorf("no completion returned")}
	}
	return out.Choices[0].Message.Content, nil
}

// Stream sends the transcript with streaming enabled and returns a
// channel of content fragments plus an error channel. The fragment
// channel closes when the stream ends; the error channel then yields at
// most one error. The fragment sequence is finite and not restartable.
func (c *Client) Stream(ctx context.Context, messages []Message) (<-chan string, <-chan error) {
	frags := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(frags)
		defer close(errs)

		resp, err := c.post(ctx, chatRequest{Model: c.model, Messages: messages, Stream: true})
		if err != nil {
			errs <- err
			return
		}
		defer resp.Body.Close()

		if err := checkStatus(resp.StatusCode); err != nil {
			errs <- err
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}
			var chunk chatChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				errs <- &CompletionError{Kind: KindMalformed, Err: err}
				return
			}
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				select {
				case frags <- chunk.Choices[0].Delta.Content:
				case <-ctx.Done():
					errs <- &CompletionError{Kind: KindNetwork, Err: ctx.Err()}
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- &CompletionError{Kind: KindNetwork, Err: err}
		}
	}()

	return frags, errs
}

func (c *Client) post(ctx context.Context, body chatRequest) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, &CompletionError{Kind: KindNetwork, Err: fmt.Errorf("API key not configured")}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &CompletionError{Kind: KindMalformed, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, &CompletionError{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CompletionError{Kind: KindNetwork, Err: err}
	}
	return resp, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusTooManyRequests:
		return &CompletionError{Kind: KindQuota, Err: fmt.Errorf("rate limit exceeded (429)")}
	default:
		return &CompletionError{Kind: KindNetwork, Err: fmt.Errorf("service returned status %d", code)}
	}
}

func apiToCompletionError(e *apiError) error {
	if strings.Contains(e.Type, "quota") {
		return &CompletionError{Kind: KindQuota, Err: fmt.Errorf("%s", e.Message)}
	}
	return &CompletionError{Kind: KindNetwork, Err: fmt.Errorf("%s", e.Message)}
}
