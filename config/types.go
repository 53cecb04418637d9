package config

// Config represents the application configuration
type Config struct {
	Workspace  WorkspaceConfig       `yaml:"workspace"`
	Assistant  AssistantConfig       `yaml:"assistant"`
	Ollama     OllamaConfig          `yaml:"ollama"`
	Gemini     GeminiConfig          `yaml:"gemini"`
	LLMs       map[string]LLMConfig  `yaml:"llms,omitempty"`
	Policy     PolicyConfig          `yaml:"policy"`
	Intents    []IntentConfig        `yaml:"intents,omitempty"`
	Tools      map[string]ToolConfig `yaml:"tools,omitempty"`
	Audit      AuditConfig           `yaml:"audit"`
	Transcript TranscriptConfig      `yaml:"transcript"`
	MCP        MCPConfig             `yaml:"mcp"`
}

// WorkspaceConfig defines the directory file tools may read
type WorkspaceConfig struct {
	Path string `yaml:"path"`
}

// AssistantConfig holds session-wide settings
type AssistantConfig struct {
	LLM      string `yaml:"llm"`       // Provider used for chat replies
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// OllamaConfig defines Ollama-specific settings. APIURL switches the
// client to an OpenAI-compatible endpoint; Mode forces api, openai or cli.
type OllamaConfig struct {
	Model  string `yaml:"model"`
	URL    string `yaml:"url"`
	APIURL string `yaml:"api_url,omitempty"`
	Mode   string `yaml:"mode,omitempty"`
}

// GeminiConfig defines settings for the gemini provider
type GeminiConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key,omitempty"`
}

// LLMConfig defines settings for a specific LLM instance
type LLMConfig struct {
	Provider    string         `yaml:"provider"`
	Model       string         `yaml:"model"`
	Temperature float64        `yaml:"temperature"`
	BaseURL     string         `yaml:"base_url,omitempty"`
	APIKey      string         `yaml:"api_key,omitempty"`
	Mode        string         `yaml:"mode,omitempty"`
	Fallback    string         `yaml:"fallback,omitempty"`
	MaxRetries  uint64         `yaml:"max_retries,omitempty"`
	Options     map[string]any `yaml:"options,omitempty"`
}

// PolicyConfig extends the built-in safety tables
type PolicyConfig struct {
	BlockedCommands []string          `yaml:"blocked_commands,omitempty"`
	SafeTools       []string          `yaml:"safe_tools,omitempty"`
	RestrictedTools map[string]string `yaml:"restricted_tools,omitempty"` // tool -> restriction
}

// IntentConfig is an extra classifier pattern. Args maps an argument name
// to a capture group number.
type IntentConfig struct {
	Pattern string         `yaml:"pattern"`
	Intent  string         `yaml:"intent"`
	Tool    string         `yaml:"tool,omitempty"`
	Args    map[string]int `yaml:"args,omitempty"`
}

// ToolConfig represents configuration for a single tool
type ToolConfig struct {
	Enabled    *bool  `yaml:"enabled,omitempty"` // nil keeps the tool's default
	Backend    string `yaml:"backend,omitempty"` // web_search: placeholder or duckduckgo
	Endpoint   string `yaml:"endpoint,omitempty"`
	MaxResults *int   `yaml:"max_results,omitempty"`
}

// AuditConfig defines audit logging settings
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	LogPath string `yaml:"log_path"`
}

// TranscriptConfig defines the conversation history store
type TranscriptConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// MCPConfig represents the MCP configuration section
type MCPConfig struct {
	Enabled bool                    `yaml:"enabled"`
	Servers map[string]ServerConfig `yaml:"servers,omitempty"`
}

// ServerConfig represents configuration for an MCP server
type ServerConfig struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	Enabled bool              `yaml:"enabled"`
}
