package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no config file is given
const DefaultPath = "config/personaos.yaml"

const (
	defaultOllamaModel = "llama2"
	defaultOllamaURL   = "http://localhost:11434"
	defaultGeminiModel = "gemini-2.0-flash"
)

var globalConfig *Config

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Path: getDefaultWorkspacePath(),
		},
		Assistant: AssistantConfig{
			LLM:      "ollama",
			LogLevel: "warn",
		},
		Ollama: OllamaConfig{
			Model: defaultOllamaModel,
			URL:   defaultOllamaURL,
		},
		Gemini: GeminiConfig{
			Model: defaultGeminiModel,
		},
		Audit: AuditConfig{
			Enabled: true,
			LogPath: ".personaos/audit.log",
		},
		Transcript: TranscriptConfig{
			Enabled: true,
			DBPath:  ".personaos/history.db",
		},
	}
}

// Load reads the configuration file and overlays the environment. A
// missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	cfg, err := LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.fillDefaults()

	globalConfig = cfg
	return cfg, nil
}

// LoadFile reads the configuration file without the environment overlay,
// so the result can be edited and saved back
func LoadFile(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.fillDefaults()
	return cfg, nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		return Default()
	}
	return globalConfig
}

// Save writes cfg to configPath, creating the parent directory
func Save(cfg *Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset overwrites configPath with the defaults
func Reset(configPath string) (*Config, error) {
	cfg := Default()
	if err := Save(cfg, configPath); err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

// ApplyEnv overlays environment variables on top of the file values
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("LLM_MODEL", &c.Assistant.LLM)
	set("PERSONAOS_LOG_LEVEL", &c.Assistant.LogLevel)
	set("OLLAMA_MODEL", &c.Ollama.Model)
	set("OLLAMA_URL", &c.Ollama.URL)
	set("OLLAMA_API_URL", &c.Ollama.APIURL)
	set("GEMINI_API_KEY", &c.Gemini.APIKey)
	set("PERSONAOS_WORKSPACE", &c.Workspace.Path)
}

func (c *Config) fillDefaults() {
	if c.Workspace.Path == "" {
		c.Workspace.Path = getDefaultWorkspacePath()
	} else {
		c.Workspace.Path = expandHomePath(c.Workspace.Path)
	}
	if c.Assistant.LLM == "" {
		c.Assistant.LLM = "ollama"
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = defaultOllamaModel
	}
	if c.Ollama.URL == "" {
		c.Ollama.URL = defaultOllamaURL
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
}

// Tool returns the configuration for a tool, or the zero value
func (c *Config) Tool(name string) ToolConfig {
	return c.Tools[name]
}

// IsToolEnabled reports whether name should be registered; def applies
// when the config does not say
func (c *Config) IsToolEnabled(name string, def bool) bool {
	if t, ok := c.Tools[name]; ok && t.Enabled != nil {
		return *t.Enabled
	}
	return def
}

// AuditLogPath returns the audit log path, relative paths resolved
// against the workspace
func (c *Config) AuditLogPath() string {
	return c.inWorkspace(c.Audit.LogPath)
}

// TranscriptPath returns the transcript database path, relative paths
// resolved against the workspace
func (c *Config) TranscriptPath() string {
	return c.inWorkspace(c.Transcript.DBPath)
}

func (c *Config) inWorkspace(p string) string {
	p = expandHomePath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Workspace.Path, p)
}

// Flatten returns the config as sorted "dotted.key: value" lines
func Flatten(cfg *Config) ([]string, error) {
	tree, err := toTree(cfg)
	if err != nil {
		return nil, err
	}

	var lines []string
	var walk func(prefix string, node any)
	walk = func(prefix string, node any) {
		m, ok := node.(map[string]any)
		if !ok {
			lines = append(lines, fmt.Sprintf("%s: %v", prefix, node))
			return
		}
		if len(m) == 0 && prefix != "" {
			lines = append(lines, prefix+": {}")
			return
		}
		for k, v := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			walk(key, v)
		}
	}
	walk("", tree)

	sort.Strings(lines)
	return lines, nil
}

// InferValue converts a command-line value: true/false become a bool,
// all-digit strings an int, anything else stays a string
func InferValue(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if raw != "" && strings.Trim(raw, "0123456789") == "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return raw
}

// Set assigns raw to the dotted key in cfg and returns the stored value.
// Unknown keys and values of the wrong type are rejected.
func Set(cfg *Config, key, raw string) (any, error) {
	if key == "" {
		return nil, errors.New("config key is required")
	}
	value := InferValue(raw)

	tree, err := toTree(cfg)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(key, ".")
	node := tree
	for _, part := range parts[:len(parts)-1] {
		next, exists := node[part]
		if !exists || next == nil {
			child := map[string]any{}
			node[part] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("config key %q: %s is not a section", key, part)
		}
		node = child
	}
	node[parts[len(parts)-1]] = value

	data, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	var updated Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&updated); err != nil {
		return nil, fmt.Errorf("invalid value for config key %q: %w", key, err)
	}

	*cfg = updated
	return value, nil
}

func toTree(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return tree, nil
}

// getDefaultWorkspacePath returns the default workspace path
// Priority: PERSONAOS_WORKSPACE env var > user home directory
func getDefaultWorkspacePath() string {
	if workspacePath := os.Getenv("PERSONAOS_WORKSPACE"); workspacePath != "" {
		return expandHomePath(workspacePath)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return cwd
	}

	return homeDir
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
