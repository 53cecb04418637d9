package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient implements the Client interface for Google's Gemini API
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float64
}

// NewGeminiClient creates a client from config.APIKey
func NewGeminiClient(ctx context.Context, config Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: config.Temperature,
	}, nil
}

// Generate sends the conversation to Gemini and returns the reply text
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	var contents []*genai.Content
	var genConfig genai.GenerateContentConfig

	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			genConfig.SystemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	temperature := c.temperature
	if req.Temperature != 0 {
		temperature = req.Temperature
	}
	if temperature != 0 {
		genConfig.Temperature = genai.Ptr(float32(temperature))
	}
	if req.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(req.MaxTokens)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	resp := &Response{
		Content: strings.TrimSpace(result.Text()),
		Model:   c.model,
	}
	if result.UsageMetadata != nil {
		resp.TokensUsed = int(result.UsageMetadata.TotalTokenCount)
	}
	return resp, nil
}

// GetModel returns the model name
func (c *GeminiClient) GetModel() string {
	return c.model
}

// GetProvider returns the provider name
func (c *GeminiClient) GetProvider() string {
	return "gemini"
}

// Label names the client in error messages
func (c *GeminiClient) Label() string {
	return "Gemini API"
}

// IsAvailable reports whether the configured model can be looked up
func (c *GeminiClient) IsAvailable(ctx context.Context) bool {
	_, err := c.client.Models.Get(ctx, c.model, nil)
	return err == nil
}
