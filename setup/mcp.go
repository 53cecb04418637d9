package setup

import (
	"context"

	"go.uber.org/zap"

	"personaos/capabilities"
	"personaos/config"
	"personaos/mcp"
)

// InitializeMCPClient connects the configured MCP servers and registers a
// bridge for every tool they expose. Returns nil when MCP is disabled or
// no server could be reached.
func InitializeMCPClient(ctx context.Context, cfg *config.Config, r capabilities.Registrar, logger *zap.Logger) *mcp.Client {
	if !cfg.MCP.Enabled {
		return nil
	}

	client := mcp.NewClient(cfg.MCP, logger)
	if err := client.Initialize(ctx); err != nil {
		logger.Warn("failed to initialize MCP client", zap.Error(err))
		client.Close()
		return nil
	}

	registerMCPTools(client, r)

	if names := client.GetServerNames(); len(names) > 0 {
		logger.Info("MCP servers active",
			zap.Strings("servers", names),
			zap.Int("tools", len(client.ListTools())),
		)
	}
	return client
}

func registerMCPTools(client *mcp.Client, r capabilities.Registrar) {
	for _, tool := range client.ListTools() {
		r.Register(mcp.NewMCPToolBridge(client, tool))
	}
}
