package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTool represents a tool exposed by an MCP server
type MCPTool struct {
	ServerName  string
	Name        string
	Description string
	InputSchema mcp.ToolInputSchema
}

// Caller runs a tool on a connected server; *Client implements it
type Caller interface {
	CallTool(ctx context.Context, serverName, toolName string, arguments map[string]interface{}) (string, error)
}

// session is the part of an mcp-go client used after the handshake
type session interface {
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}
