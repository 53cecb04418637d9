package setup

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"personaos/config"
	"personaos/llm"
)

// ChatLLMConfig derives the chat model settings. An explicit llms.chat
// entry wins; otherwise assistant.llm picks the provider and its section
// supplies the model.
func ChatLLMConfig(cfg *config.Config) llm.Config {
	if c, ok := cfg.LLMs[string(llm.PurposeChat)]; ok {
		return llm.Config{
			Provider:    c.Provider,
			Model:       c.Model,
			Temperature: c.Temperature,
			BaseURL:     c.BaseURL,
			APIKey:      c.APIKey,
			Mode:        c.Mode,
			Fallback:    c.Fallback,
			MaxRetries:  c.MaxRetries,
			Options:     c.Options,
		}
	}

	provider := strings.ToLower(cfg.Assistant.LLM)
	switch provider {
	case "ollama":
		c := llm.Config{
			Provider: provider,
			Model:    cfg.Ollama.Model,
			BaseURL:  cfg.Ollama.URL,
			Mode:     cfg.Ollama.Mode,
		}
		if cfg.Ollama.APIURL != "" && (c.Mode == "" || c.Mode == llm.ModeOpenAI) {
			c.Mode = llm.ModeOpenAI
			c.BaseURL = cfg.Ollama.APIURL
		}
		if c.Mode == llm.ModeCLI {
			c.BaseURL = ""
		}
		return c
	case "gemini":
		return llm.Config{
			Provider: provider,
			Model:    cfg.Gemini.Model,
			APIKey:   cfg.Gemini.APIKey,
		}
	default:
		return llm.Config{Provider: provider}
	}
}

// InitializeLLMManager creates the LLM manager and registers the chat
// model. A registration failure is logged and leaves the manager empty,
// so conversational replies report that no LLM is initialized.
func InitializeLLMManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) *llm.Manager {
	manager := llm.NewManager(logger)

	chatCfg := ChatLLMConfig(cfg)
	if err := manager.RegisterLLM(ctx, llm.PurposeChat, chatCfg); err != nil {
		logger.Warn("failed to register chat LLM",
			zap.String("provider", chatCfg.Provider),
			zap.Error(err),
		)
	}

	return manager
}
