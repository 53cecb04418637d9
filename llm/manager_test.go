package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a mock LLM client for testing
type mockClient struct {
	model        string
	provider     string
	available    bool
	calls        int
	generateFunc func(ctx context.Context, req Request) (*Response, error)
}

func (m *mockClient) Generate(ctx context.Context, req Request) (*Response, error) {
	m.calls++
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return &Response{
		Content:    "mock response from " + m.model,
		Model:      m.model,
		TokensUsed: 10,
	}, nil
}

func (m *mockClient) GetModel() string {
	return m.model
}

func (m *mockClient) GetProvider() string {
	return m.provider
}

func (m *mockClient) IsAvailable(ctx context.Context) bool {
	return m.available
}

func failing(msg string) func(context.Context, Request) (*Response, error) {
	return func(context.Context, Request) (*Response, error) {
		return nil, errors.New(msg)
	}
}

func TestNewManager(t *testing.T) {
	manager := NewManager(nil)

	require.NotNil(t, manager)
	assert.NotNil(t, manager.clients)
	assert.NotNil(t, manager.configs)
	assert.Empty(t, manager.Purposes())
}

func TestRegisterLLMInvalidProvider(t *testing.T) {
	manager := NewManager(nil)

	err := manager.RegisterLLM(context.Background(), PurposeChat, Config{
		Provider: "nonexistent",
		Model:    "test-model",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestRegisterLLMProviders(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		config   Config
		wantType Client
		wantErr  string
	}{
		{
			name:     "ollama native",
			config:   Config{Provider: "ollama", Model: "llama3"},
			wantType: &OllamaClient{},
		},
		{
			name:     "ollama openai mode",
			config:   Config{Provider: "ollama", Model: "llama3", Mode: ModeOpenAI, BaseURL: "http://localhost:11434/v1"},
			wantType: &OpenAIClient{},
		},
		{
			name:    "ollama openai mode without url",
			config:  Config{Provider: "ollama", Model: "llama3", Mode: ModeOpenAI},
			wantErr: "API URL not set for OpenAI-compatible mode",
		},
		{
			name:     "ollama cli mode",
			config:   Config{Provider: "ollama", Model: "llama3", Mode: ModeCLI},
			wantType: &CLIClient{},
		},
		{
			name:    "ollama unknown mode",
			config:  Config{Provider: "ollama", Model: "llama3", Mode: "grpc"},
			wantErr: "unsupported ollama mode",
		},
		{
			name:     "openai",
			config:   Config{Provider: "openai", Model: "gpt-4o-mini", BaseURL: "https://api.example.com/v1"},
			wantType: &OpenAIClient{},
		},
		{
			name:    "gemini without key",
			config:  Config{Provider: "gemini"},
			wantErr: "Gemini API key is required",
		},
		{
			name:    "ollama without model",
			config:  Config{Provider: "ollama"},
			wantErr: "model name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager(nil)
			err := manager.RegisterLLM(ctx, PurposeChat, tt.config)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			client, err := manager.GetClient(PurposeChat)
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, client)
			assert.Equal(t, tt.config.Model, client.GetModel())

			config, ok := manager.GetConfig(PurposeChat)
			assert.True(t, ok)
			assert.Equal(t, tt.config, config)
		})
	}
}

func TestRegisterLLMFallback(t *testing.T) {
	manager := NewManager(nil)

	err := manager.RegisterLLM(context.Background(), PurposeChat, Config{
		Provider: "ollama",
		Model:    "llama3",
		Fallback: "phi3",
	})
	require.NoError(t, err)

	fallback, ok := manager.fallbacks[PurposeChat]
	require.True(t, ok)
	assert.Equal(t, "phi3", fallback.GetModel())

	// Re-registering without a fallback clears the old one
	err = manager.RegisterLLM(context.Background(), PurposeChat, Config{
		Provider: "ollama",
		Model:    "llama3",
		Fallback: "llama3",
	})
	require.NoError(t, err)
	_, ok = manager.fallbacks[PurposeChat]
	assert.False(t, ok)
}

func TestGetClient(t *testing.T) {
	manager := NewManager(nil)

	manager.RegisterClient(PurposeChat, &mockClient{
		model:     "chat-model",
		provider:  "mock",
		available: true,
	})

	client, err := manager.GetClient(PurposeChat)
	require.NoError(t, err)
	assert.Equal(t, "chat-model", client.GetModel())

	// Unknown purposes fall back to chat
	client, err = manager.GetClient(Purpose("summary"))
	require.NoError(t, err)
	assert.Equal(t, "chat-model", client.GetModel())
}

func TestGetClientNotAvailable(t *testing.T) {
	manager := NewManager(nil)

	client, err := manager.GetClient(PurposeChat)
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "no LLM available")
}

func TestGenerate(t *testing.T) {
	manager := NewManager(nil)
	manager.RegisterClient(PurposeChat, &mockClient{model: "chat-model", provider: "mock"})

	resp, client, err := manager.Generate(context.Background(), PurposeChat, userPrompt("hello"))
	require.NoError(t, err)
	assert.Equal(t, "mock response from chat-model", resp.Content)
	assert.Equal(t, "chat-model", client.GetModel())
}

func TestGenerateUsesFallback(t *testing.T) {
	manager := NewManager(nil)
	primary := &mockClient{model: "big", provider: "mock", generateFunc: failing("out of memory")}
	fallback := &mockClient{model: "small", provider: "mock"}
	manager.RegisterClient(PurposeChat, primary)
	manager.fallbacks[PurposeChat] = fallback

	resp, client, err := manager.Generate(context.Background(), PurposeChat, userPrompt("hello"))
	require.NoError(t, err)
	assert.Equal(t, "mock response from small", resp.Content)
	assert.Equal(t, "small", client.GetModel())
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestGenerateFallbackFails(t *testing.T) {
	manager := NewManager(nil)
	manager.RegisterClient(PurposeChat, &mockClient{model: "big", provider: "mock", generateFunc: failing("boom")})
	manager.fallbacks[PurposeChat] = &mockClient{model: "small", provider: "mock", generateFunc: failing("also boom")}

	_, client, err := manager.Generate(context.Background(), PurposeChat, userPrompt("hello"))
	require.Error(t, err)
	assert.Equal(t, "also boom", err.Error())
	assert.Equal(t, "small", client.GetModel())
}

func TestIsAvailable(t *testing.T) {
	manager := NewManager(nil)
	assert.False(t, manager.IsAvailable(context.Background(), PurposeChat))

	manager.RegisterClient(PurposeChat, &mockClient{model: "m", available: true})
	assert.True(t, manager.IsAvailable(context.Background(), PurposeChat))
}

func TestGetConfigMissing(t *testing.T) {
	manager := NewManager(nil)
	_, ok := manager.GetConfig(PurposeChat)
	assert.False(t, ok)
}
