package llm

import "context"

// Purpose defines the intended use case for an LLM
type Purpose string

const (
	PurposeChat Purpose = "chat" // Conversational replies for safe-response intents
)

// Message represents a single message in a conversation
type Message struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // The message content
}

// Request represents a request to an LLM
type Request struct {
	Messages    []Message      `json:"messages"`
	Temperature float64        `json:"temperature,omitempty"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
}

// Response represents a response from an LLM
type Response struct {
	Content    string         `json:"content"`
	Model      string         `json:"model"`
	TokensUsed int            `json:"tokens_used,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Client defines the interface for interacting with LLM providers
type Client interface {
	// Generate sends a request to the LLM and returns a response
	Generate(ctx context.Context, req Request) (*Response, error)

	// GetModel returns the model name this client is using
	GetModel() string

	// GetProvider returns the provider name (e.g., "ollama", "gemini")
	GetProvider() string

	// IsAvailable checks if the LLM is available and responding
	IsAvailable(ctx context.Context) bool
}

// Labeler is implemented by clients that want a specific name in
// user-facing error messages
type Labeler interface {
	Label() string
}

// Ollama transport modes
const (
	ModeAPI    = "api"    // native /api/generate
	ModeOpenAI = "openai" // OpenAI-compatible /chat/completions
	ModeCLI    = "cli"    // `ollama run`
)

// Config represents configuration for a specific LLM instance
type Config struct {
	Provider    string         `yaml:"provider"`
	Model       string         `yaml:"model"`
	Temperature float64        `yaml:"temperature"`
	BaseURL     string         `yaml:"base_url,omitempty"`
	APIKey      string         `yaml:"api_key,omitempty"`
	Mode        string         `yaml:"mode,omitempty"`     // Ollama only: api, openai or cli
	Fallback    string         `yaml:"fallback,omitempty"` // Fallback model name
	MaxRetries  uint64         `yaml:"max_retries,omitempty"`
	Options     map[string]any `yaml:"options,omitempty"`
}

// userPrompt builds a request holding a single user message
func userPrompt(prompt string) Request {
	return Request{Messages: []Message{{Role: "user", Content: prompt}}}
}
