package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// OpenAIClient talks to any server exposing an OpenAI-compatible
// /chat/completions endpoint, including Ollama's own compatibility layer
type OpenAIClient struct {
	baseURL     string
	apiKey      string
	model       string
	provider    string
	label       string
	temperature float64
	maxRetries  uint64
	backoff     time.Duration
	http        *http.Client
}

// NewOpenAIClient creates a client for config.BaseURL
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.BaseURL == "" {
		return nil, errors.New("API URL not set for OpenAI-compatible mode")
	}
	if config.Model == "" {
		return nil, errors.New("model name is required")
	}

	retries := config.MaxRetries
	if retries == 0 {
		retries = 3
	}

	provider := config.Provider
	label := "OpenAI-compatible API"
	if provider == "" || provider == "ollama" {
		provider = "ollama"
		label = "Ollama API"
	}

	return &OpenAIClient{
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		apiKey:      config.APIKey,
		model:       config.Model,
		provider:    provider,
		label:       label,
		temperature: config.Temperature,
		maxRetries:  retries,
		backoff:     200 * time.Millisecond,
		http:        &http.Client{Timeout: 120 * time.Second},
	}, nil
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate posts the conversation and returns the first choice. Network
// failures, 429 and 5xx responses are retried with Fibonacci backoff.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	temperature := c.temperature
	if req.Temperature != 0 {
		temperature = req.Temperature
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var out chatCompletionResponse
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(c.backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.post(ctx, body, &out)
	})
	if err != nil {
		return nil, err
	}

	if len(out.Choices) == 0 {
		return nil, errors.New("response contained no choices")
	}

	model := out.Model
	if model == "" {
		model = c.model
	}

	return &Response{
		Content:    strings.TrimSpace(out.Choices[0].Message.Content),
		Model:      model,
		TokensUsed: out.Usage.TotalTokens,
	}, nil
}

func (c *OpenAIClient) post(ctx context.Context, body []byte, out *chatCompletionResponse) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("%d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), bytes.TrimSpace(b))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return retry.RetryableError(statusErr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetModel returns the model name
func (c *OpenAIClient) GetModel() string {
	return c.model
}

// GetProvider returns the provider name
func (c *OpenAIClient) GetProvider() string {
	return c.provider
}

// Label names the client in error messages
func (c *OpenAIClient) Label() string {
	return c.label
}

// IsAvailable checks that the models endpoint answers
func (c *OpenAIClient) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return false
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
