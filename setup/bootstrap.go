// Package setup wires configuration into a running assistant.
package setup

import (
	"context"
	"io"

	"go.uber.org/zap"

	"personaos/agent/chat"
	"personaos/agent/intent"
	"personaos/config"
	"personaos/core/registry"
	"personaos/llm"
	"personaos/mcp"
	"personaos/transcript"
)

// Bootstrap contains all initialized components
type Bootstrap struct {
	Config     *config.Config
	Logger     *zap.Logger
	Registry   *registry.Registry
	Processor  *intent.Processor
	LLMManager *llm.Manager
	Gateway    *llm.Gateway
	Transcript *transcript.Store
	MCPClient  *mcp.Client
	Chat       *chat.Handler
}

// Options holds per-session settings that do not live in the config file
type Options struct {
	TranscriptLog io.Writer // plain-text log of the session, or nil
}

// Initialize bootstraps the assistant. Only an invalid intent pattern is
// fatal; unavailable optional parts (transcript store, MCP, the LLM) are
// logged and skipped.
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Bootstrap, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bootstrap{Config: cfg, Logger: logger}

	b.Registry = InitializeRegistry(cfg, logger.Named("tools"))
	b.MCPClient = InitializeMCPClient(ctx, cfg, b.Registry, logger.Named("mcp"))

	processor, err := InitializeProcessor(cfg, b.Registry, logger.Named("intent"))
	if err != nil {
		b.Cleanup()
		return nil, err
	}
	b.Processor = processor

	b.LLMManager = InitializeLLMManager(ctx, cfg, logger.Named("llm"))
	b.Gateway = llm.NewGateway(b.LLMManager, logger.Named("llm"))

	b.Transcript = InitializeTranscript(cfg, logger)

	chatOpts := []chat.Option{chat.WithLogger(logger.Named("chat"))}
	if b.Transcript != nil {
		chatOpts = append(chatOpts, chat.WithRecorder(b.Transcript))
	}
	if opts.TranscriptLog != nil {
		chatOpts = append(chatOpts, chat.WithTranscriptLog(opts.TranscriptLog))
	}
	b.Chat = chat.NewHandler(b.Processor, b.Gateway, chatOpts...)

	return b, nil
}

// InitializeTranscript opens the history store, or returns nil when it is
// disabled or cannot be opened
func InitializeTranscript(cfg *config.Config, logger *zap.Logger) *transcript.Store {
	if !cfg.Transcript.Enabled {
		return nil
	}
	store, err := transcript.NewStore(cfg.TranscriptPath())
	if err != nil {
		logger.Warn("transcript store unavailable", zap.String("path", cfg.TranscriptPath()), zap.Error(err))
		return nil
	}
	return store
}

// Cleanup gracefully shuts down all components
func (b *Bootstrap) Cleanup() {
	if b.MCPClient != nil {
		b.MCPClient.Close()
	}
	if b.Transcript != nil {
		if err := b.Transcript.Close(); err != nil {
			b.Logger.Debug("error closing transcript store", zap.Error(err))
		}
	}
}
