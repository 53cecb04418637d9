// Package mcp bridges tools served by Model Context Protocol servers into
// the tool registry.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"personaos/config"
)

const connectTimeout = 5 * time.Second

// Client manages connections to MCP servers
type Client struct {
	mu      sync.RWMutex
	servers map[string]session
	tools   []MCPTool
	config  config.MCPConfig
	logger  *zap.Logger
}

// NewClient creates a new MCP client
func NewClient(cfg config.MCPConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		servers: make(map[string]session),
		config:  cfg,
		logger:  logger,
	}
}

// Initialize connects to all enabled servers. A server that fails to start
// is logged and skipped; Initialize only fails when every server does.
func (c *Client) Initialize(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	names := make([]string, 0, len(c.config.Servers))
	for name, serverCfg := range c.config.Servers {
		if serverCfg.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := c.connectServer(connectCtx, name, c.config.Servers[name])
		cancel()
		if err != nil {
			c.logger.Warn("failed to connect to MCP server", zap.String("server", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if len(names) > 0 && len(errs) == len(names) {
		return errors.Join(errs...)
	}
	return nil
}

// connectServer starts a single MCP server over stdio and lists its tools
func (c *Client) connectServer(ctx context.Context, name string, cfg config.ServerConfig) error {
	envVars := make([]string, 0, len(cfg.Env))
	for key, value := range cfg.Env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", key, os.ExpandEnv(value)))
	}

	mcpClient, err := client.NewStdioMCPClient(cfg.Command, envVars, cfg.Args...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "personaos",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		mcpClient.Close()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	result, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		mcpClient.Close()
		return fmt.Errorf("failed to list tools: %w", err)
	}

	c.addServer(name, mcpClient, result.Tools)
	c.logger.Debug("connected MCP server", zap.String("server", name), zap.Int("tools", len(result.Tools)))
	return nil
}

func (c *Client) addServer(name string, s session, tools []mcp.Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.servers[name] = s
	for _, tool := range tools {
		c.tools = append(c.tools, MCPTool{
			ServerName:  name,
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
}

// ListTools returns all available MCP tools
func (c *Client) ListTools() []MCPTool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]MCPTool(nil), c.tools...)
}

// CallTool executes a tool on the appropriate MCP server and returns its
// text content
func (c *Client) CallTool(ctx context.Context, serverName, toolName string, arguments map[string]interface{}) (string, error) {
	c.mu.RLock()
	server, exists := c.servers[serverName]
	c.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("server '%s' not connected", serverName)
	}

	result, err := server.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	})
	if err != nil {
		return "", fmt.Errorf("tool call failed: %w", err)
	}

	output := resultText(result)
	if result.IsError {
		if output == "" {
			output = "unknown error"
		}
		return "", fmt.Errorf("tool reported an error: %s", output)
	}
	return output, nil
}

// resultText joins the text items of a result; other content types are
// rendered with their Go representation
func resultText(result *mcp.CallToolResult) string {
	parts := make([]string, 0, len(result.Content))
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			parts = append(parts, c.Text)
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		default:
			parts = append(parts, fmt.Sprintf("%v", content))
		}
	}
	return strings.Join(parts, "\n")
}

// GetServerNames returns the connected server names in sorted order
func (c *Client) GetServerNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.servers))
	for name := range c.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes all MCP server connections
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, server := range c.servers {
		if err := server.Close(); err != nil {
			c.logger.Debug("error closing MCP server", zap.String("server", name), zap.Error(err))
		}
	}
	c.servers = make(map[string]session)
	c.tools = nil
}
