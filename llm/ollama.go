package llm

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"personaos/ollama"
)

// OllamaClient generates through Ollama's native streaming API
type OllamaClient struct {
	client      *ollama.Client
	model       string
	temperature float64
	options     map[string]any
}

// NewOllamaClient creates a client for config.Model on config.BaseURL
func NewOllamaClient(config Config) (*OllamaClient, error) {
	client, err := ollama.NewClient(config.Model, config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &OllamaClient{
		client:      client,
		model:       config.Model,
		temperature: config.Temperature,
		options:     config.Options,
	}, nil
}

// Generate flattens the conversation into a single prompt; the last system
// message becomes the system prompt
func (c *OllamaClient) Generate(ctx context.Context, req Request) (*Response, error) {
	gr := ollama.GenerateRequest{Options: c.requestOptions(req)}

	var prompt strings.Builder
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			gr.System = msg.Content
			continue
		}
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n")
	}
	gr.Prompt = strings.TrimSpace(prompt.String())

	var out strings.Builder
	if err := c.client.Generate(ctx, gr, func(chunk string) { out.WriteString(chunk) }); err != nil {
		return nil, fmt.Errorf("ollama generation error: %w", err)
	}

	return &Response{
		Content:  strings.TrimSpace(out.String()),
		Model:    c.model,
		Metadata: map[string]any{"options": gr.Options},
	}, nil
}

// requestOptions merges configured options with per-request overrides
func (c *OllamaClient) requestOptions(req Request) map[string]any {
	opts := make(map[string]any, len(c.options)+2)
	maps.Copy(opts, c.options)
	maps.Copy(opts, req.Options)

	switch {
	case req.Temperature > 0:
		opts["temperature"] = req.Temperature
	case c.temperature > 0:
		opts["temperature"] = c.temperature
	}
	if req.MaxTokens > 0 {
		opts["num_predict"] = req.MaxTokens
	}

	if len(opts) == 0 {
		return nil
	}
	return opts
}

func (c *OllamaClient) GetModel() string    { return c.model }
func (c *OllamaClient) GetProvider() string { return "ollama" }

// Label names the client in error messages
func (c *OllamaClient) Label() string {
	return "Ollama API"
}

// IsAvailable reports whether the server is up and the model is pulled
func (c *OllamaClient) IsAvailable(ctx context.Context) bool {
	return c.client.Ping(ctx) == nil
}
