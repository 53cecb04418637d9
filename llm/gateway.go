package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const noLLMMessage = "No LLM initialized."

// Gateway is the single entry point the conversation layer uses to get a
// reply. It never returns an error: failures come back as a sentence the
// user can read.
type Gateway struct {
	manager *Manager
	purpose Purpose
	logger  *zap.Logger
}

// NewGateway creates a gateway that answers with the chat LLM
func NewGateway(manager *Manager, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		manager: manager,
		purpose: PurposeChat,
		logger:  logger,
	}
}

// Generate returns the model's reply to prompt
func (g *Gateway) Generate(ctx context.Context, prompt string) string {
	if g == nil || g.manager == nil {
		return noLLMMessage
	}

	resp, client, err := g.manager.Generate(ctx, g.purpose, userPrompt(prompt))
	if err != nil {
		if client == nil {
			g.logger.Warn("no LLM registered", zap.Error(err))
			return noLLMMessage
		}
		g.logger.Warn("LLM call failed",
			zap.String("provider", client.GetProvider()),
			zap.String("model", client.GetModel()),
			zap.Error(err),
		)
		if errors.Is(err, context.Canceled) {
			return "Request cancelled."
		}
		return fmt.Sprintf("Error calling %s: %v", label(client), err)
	}

	return resp.Content
}

// Model returns the model answering chat requests, or "" if none
func (g *Gateway) Model() string {
	if g == nil || g.manager == nil {
		return ""
	}
	client, err := g.manager.GetClient(g.purpose)
	if err != nil {
		return ""
	}
	return client.GetModel()
}

func label(client Client) string {
	if l, ok := client.(Labeler); ok {
		return l.Label()
	}
	return client.GetProvider()
}
