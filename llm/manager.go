package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Supported providers
var providers = []string{"gemini", "ollama", "openai"}

// Manager manages LLM clients for different purposes
type Manager struct {
	clients   map[Purpose]Client
	fallbacks map[Purpose]Client
	configs   map[Purpose]Config
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewManager creates a new LLM manager. A nil logger discards output.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		clients:   make(map[Purpose]Client),
		fallbacks: make(map[Purpose]Client),
		configs:   make(map[Purpose]Config),
		logger:    logger,
	}
}

// NewClient builds a client for config without registering it
func NewClient(ctx context.Context, config Config) (Client, error) {
	switch strings.ToLower(config.Provider) {
	case "ollama":
		switch config.Mode {
		case "", ModeAPI:
			return NewOllamaClient(config)
		case ModeOpenAI:
			return NewOpenAIClient(config)
		case ModeCLI:
			return NewCLIClient(config)
		default:
			return nil, fmt.Errorf("unsupported ollama mode: %s", config.Mode)
		}
	case "openai":
		return NewOpenAIClient(config)
	case "gemini":
		return NewGeminiClient(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: %s)", config.Provider, strings.Join(providers, ", "))
	}
}

// RegisterLLM registers an LLM for a specific purpose. When config names a
// fallback model, a second client with that model is registered behind it.
func (m *Manager) RegisterLLM(ctx context.Context, purpose Purpose, config Config) error {
	client, err := NewClient(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create %s client: %w", config.Provider, err)
	}

	var fallback Client
	if config.Fallback != "" && config.Fallback != config.Model {
		fbConfig := config
		fbConfig.Model = config.Fallback
		fbConfig.Fallback = ""
		if fallback, err = NewClient(ctx, fbConfig); err != nil {
			return fmt.Errorf("failed to create fallback client: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.configs[purpose] = config
	m.clients[purpose] = client
	if fallback != nil {
		m.fallbacks[purpose] = fallback
	} else {
		delete(m.fallbacks, purpose)
	}

	m.logger.Debug("registered LLM",
		zap.String("purpose", string(purpose)),
		zap.String("provider", client.GetProvider()),
		zap.String("model", client.GetModel()),
	)
	return nil
}

// RegisterClient registers a ready-made client for purpose
func (m *Manager) RegisterClient(purpose Purpose, client Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[purpose] = client
}

// GetClient returns the LLM client for a specific purpose
// If the requested client is not available, it falls back to the chat client
func (m *Manager) GetClient(purpose Purpose) (Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if client, ok := m.clients[purpose]; ok {
		return client, nil
	}

	if purpose != PurposeChat {
		if chatClient, ok := m.clients[PurposeChat]; ok {
			return chatClient, nil
		}
	}

	return nil, fmt.Errorf("no LLM available for purpose: %s", purpose)
}

// Generate sends a request to the LLM registered for purpose. If that fails
// and a fallback model is registered, the request is retried on it once.
func (m *Manager) Generate(ctx context.Context, purpose Purpose, req Request) (*Response, Client, error) {
	client, err := m.GetClient(purpose)
	if err != nil {
		return nil, nil, err
	}

	resp, err := client.Generate(ctx, req)
	if err == nil {
		return resp, client, nil
	}

	m.mu.RLock()
	fallback, ok := m.fallbacks[purpose]
	m.mu.RUnlock()
	if !ok || ctx.Err() != nil {
		return nil, client, err
	}

	m.logger.Warn("primary LLM failed, using fallback",
		zap.String("model", client.GetModel()),
		zap.String("fallback", fallback.GetModel()),
		zap.Error(err),
	)
	resp, fbErr := fallback.Generate(ctx, req)
	if fbErr != nil {
		return nil, fallback, fbErr
	}
	return resp, fallback, nil
}

// IsAvailable checks if an LLM for the given purpose is available
func (m *Manager) IsAvailable(ctx context.Context, purpose Purpose) bool {
	client, err := m.GetClient(purpose)
	if err != nil {
		return false
	}
	return client.IsAvailable(ctx)
}

// Purposes returns the registered purposes in sorted order
func (m *Manager) Purposes() []Purpose {
	m.mu.RLock()
	defer m.mu.RUnlock()

	purposes := make([]Purpose, 0, len(m.clients))
	for purpose := range m.clients {
		purposes = append(purposes, purpose)
	}
	sort.Slice(purposes, func(i, j int) bool { return purposes[i] < purposes[j] })
	return purposes
}

// GetConfig returns the configuration for a specific purpose
func (m *Manager) GetConfig(purpose Purpose) (Config, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	config, ok := m.configs[purpose]
	return config, ok
}
