package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personaos/config"
	"personaos/core/types"
)

type fakeSession struct {
	lastReq mcp.CallToolRequest
	result  *mcp.CallToolResult
	err     error
	closed  bool
}

func (s *fakeSession) CallTool(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.lastReq = req
	return s.result, s.err
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type stubCaller struct {
	output string
	err    error
	server string
	tool   string
	args   map[string]interface{}
}

func (c *stubCaller) CallTool(_ context.Context, server, tool string, args map[string]interface{}) (string, error) {
	c.server, c.tool, c.args = server, tool, args
	return c.output, c.err
}

func readFileTool() MCPTool {
	return MCPTool{
		ServerName:  "fs",
		Name:        "read_file",
		Description: "Read a file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"path":  map[string]any{"type": "string", "description": "File to read"},
				"limit": map[string]any{"type": "integer"},
			},
			Required: []string{"path"},
		},
	}
}

func TestClientCallTool(t *testing.T) {
	c := NewClient(config.MCPConfig{Enabled: true}, nil)
	s := &fakeSession{result: &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent("line one"), mcp.NewTextContent("line two")},
	}}
	c.addServer("fs", s, []mcp.Tool{{Name: "read_file", Description: "Read a file"}})

	out, err := c.CallTool(context.Background(), "fs", "read_file", map[string]interface{}{"path": "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", out)
	assert.Equal(t, "read_file", s.lastReq.Params.Name)

	assert.Equal(t, []string{"fs"}, c.GetServerNames())
	require.Len(t, c.ListTools(), 1)
	assert.Equal(t, "fs", c.ListTools()[0].ServerName)
}

func TestClientCallToolErrors(t *testing.T) {
	c := NewClient(config.MCPConfig{Enabled: true}, nil)

	_, err := c.CallTool(context.Background(), "missing", "x", nil)
	assert.EqualError(t, err, "server 'missing' not connected")

	c.addServer("broken", &fakeSession{err: errors.New("pipe closed")}, nil)
	_, err = c.CallTool(context.Background(), "broken", "x", nil)
	assert.ErrorContains(t, err, "pipe closed")

	c.addServer("failing", &fakeSession{result: &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{mcp.NewTextContent("permission denied")},
	}}, nil)
	_, err = c.CallTool(context.Background(), "failing", "x", nil)
	assert.EqualError(t, err, "tool reported an error: permission denied")
}

func TestClientClose(t *testing.T) {
	c := NewClient(config.MCPConfig{Enabled: true}, nil)
	s := &fakeSession{}
	c.addServer("fs", s, []mcp.Tool{{Name: "read_file"}})

	c.Close()
	assert.True(t, s.closed)
	assert.Empty(t, c.GetServerNames())
	assert.Empty(t, c.ListTools())
}

func TestInitializeDisabled(t *testing.T) {
	c := NewClient(config.MCPConfig{
		Enabled: false,
		Servers: map[string]config.ServerConfig{"fs": {Command: "does-not-exist", Enabled: true}},
	}, nil)
	assert.NoError(t, c.Initialize(context.Background()))
	assert.Empty(t, c.GetServerNames())
}

func TestInitializeAllServersFail(t *testing.T) {
	c := NewClient(config.MCPConfig{
		Enabled: true,
		Servers: map[string]config.ServerConfig{
			"ghost": {Command: "/nonexistent/personaos-mcp-server", Enabled: true},
			"off":   {Command: "also-missing", Enabled: false},
		},
	}, nil)
	err := c.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
	assert.NotContains(t, err.Error(), "off")
}

func TestBridgeMetadata(t *testing.T) {
	b := NewMCPToolBridge(&stubCaller{}, readFileTool())
	meta := b.Metadata()

	assert.Equal(t, "mcp_fs_read_file", meta.Name)
	assert.Equal(t, "[MCP:fs] Read a file", meta.Description)
	assert.Equal(t, types.CategoryMCP, meta.Category)
	assert.Equal(t, types.RiskModerate, meta.RiskLevel)
	assert.Equal(t, []types.Parameter{
		{Name: "limit", Type: "integer"},
		{Name: "path", Type: "string", Required: true, Description: "File to read"},
	}, meta.Parameters)
}

func TestBridgeValidate(t *testing.T) {
	b := NewMCPToolBridge(&stubCaller{}, readFileTool())

	assert.True(t, b.ValidateArgs(map[string]interface{}{"path": "notes.txt"}))
	assert.True(t, b.ValidateArgs(map[string]interface{}{"path": "notes.txt", "limit": 10}))

	err := b.Validate(map[string]interface{}{"limit": 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")

	assert.False(t, b.ValidateArgs(map[string]interface{}{"path": 42}))
	assert.False(t, b.ValidateArgs(nil))
}

func TestBridgeValidateEmptySchema(t *testing.T) {
	b := NewMCPToolBridge(&stubCaller{}, MCPTool{ServerName: "s", Name: "ping"})
	assert.True(t, b.ValidateArgs(nil))
	assert.True(t, b.ValidateArgs(map[string]interface{}{"anything": true}))
}

func TestBridgeExecute(t *testing.T) {
	caller := &stubCaller{output: `{"size": 12}`}
	b := NewMCPToolBridge(caller, readFileTool())

	result := b.Execute(context.Background(), map[string]interface{}{"path": "a.txt"})
	require.True(t, result.Success)
	assert.Equal(t, "fs", caller.server)
	assert.Equal(t, "read_file", caller.tool)
	assert.Equal(t, map[string]interface{}{"size": float64(12)}, result.Data["output"])
	assert.Equal(t, "mcp", result.Metadata["source"])

	caller.output = "plain text"
	result = b.Execute(context.Background(), nil)
	assert.Equal(t, "plain text", result.Data["output"])

	caller.err = errors.New("server gone")
	result = b.Execute(context.Background(), nil)
	assert.False(t, result.Success)
	assert.Equal(t, "MCP tool execution failed: server gone", result.Error)
}
