package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is where a local Ollama server listens
const DefaultURL = "http://localhost:11434"

type Client struct {
	model string
	url   string
	http  *http.Client
}

// NewClient creates a client for model on the server at url
func NewClient(model, url string) (*Client, error) {
	if model == "" {
		return nil, errors.New("model name is required")
	}
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		model: model,
		url:   strings.TrimRight(url, "/"),
		http:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Model returns the model name
func (c *Client) Model() string {
	return c.model
}

// URL returns the server address
func (c *Client) URL() string {
	return c.url
}

// Ping verifies the server is up and the model has been pulled
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.New("could not connect to Ollama server")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama server returned %d", resp.StatusCode)
	}
	var tags struct{ Models []struct{ Name string } }
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return err
	}
	for _, m := range tags.Models {
		if m.Name == c.model || m.Name == c.model+":latest" {
			return nil
		}
	}
	return fmt.Errorf("model '%s' not found locally; run 'ollama pull %s'", c.model, c.model)
}

// GenerateRequest is a single /api/generate call
type GenerateRequest struct {
	Prompt  string
	System  string
	Options map[string]any // sampling options such as temperature
}

// Generate streams a completion, calling handler for every chunk of text
func (c *Client) Generate(ctx context.Context, gr GenerateRequest, handler func(string)) error {
	reqBody := map[string]interface{}{
		"model":  c.model,
		"prompt": gr.Prompt,
		"stream": true,
	}
	if gr.System != "" {
		reqBody["system"] = gr.System
	}
	if len(gr.Options) > 0 {
		reqBody["options"] = gr.Options
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	// Streaming responses outlive the default client timeout
	httpClient := &http.Client{Timeout: 0}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama returned %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			var chunk struct {
				Response string `json:"response"`
				Done     bool   `json:"done"`
				Error    string `json:"error"`
			}
			if json.Unmarshal(line, &chunk) == nil {
				if chunk.Error != "" {
					return fmt.Errorf("ollama error: %s", chunk.Error)
				}
				if chunk.Response != "" {
					handler(chunk.Response)
				}
				if chunk.Done {
					return nil
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read stream: %w", err)
		}
	}
}
