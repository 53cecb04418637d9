package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	. "personaos/core/types"
)

// MCPToolBridge adapts an MCP tool to the Tool interface
type MCPToolBridge struct {
	caller     Caller
	serverName string
	tool       MCPTool

	once      sync.Once
	schema    *jsonschema.Schema
	schemaErr error
}

// NewMCPToolBridge creates a new bridge for an MCP tool
func NewMCPToolBridge(caller Caller, tool MCPTool) *MCPToolBridge {
	return &MCPToolBridge{
		caller:     caller,
		serverName: tool.ServerName,
		tool:       tool,
	}
}

// Name returns the registry name, mcp_<server>_<tool>
func (b *MCPToolBridge) Name() string {
	return fmt.Sprintf("mcp_%s_%s", b.serverName, b.tool.Name)
}

// Metadata lists the top-level schema properties as parameters
func (b *MCPToolBridge) Metadata() ToolMetadata {
	required := make(map[string]bool, len(b.tool.InputSchema.Required))
	for _, name := range b.tool.InputSchema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(b.tool.InputSchema.Properties))
	for name := range b.tool.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]Parameter, 0, len(names))
	for _, name := range names {
		p := Parameter{Name: name, Type: "any", Required: required[name]}
		if prop, ok := b.tool.InputSchema.Properties[name].(map[string]any); ok {
			if t, ok := prop["type"].(string); ok {
				p.Type = t
			}
			if d, ok := prop["description"].(string); ok {
				p.Description = d
			}
		}
		params = append(params, p)
	}

	return ToolMetadata{
		Name:        b.Name(),
		Description: fmt.Sprintf("[MCP:%s] %s", b.serverName, b.tool.Description),
		Category:    CategoryMCP,
		RiskLevel:   RiskModerate,
		Parameters:  params,
	}
}

// Validate checks args against the tool's input schema
func (b *MCPToolBridge) Validate(args map[string]interface{}) error {
	schema, err := b.compiledSchema()
	if err != nil {
		return err
	}

	// Round-trip so the validator sees plain JSON values
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ValidateArgs reports whether args satisfy the input schema
func (b *MCPToolBridge) ValidateArgs(args map[string]interface{}) bool {
	return b.Validate(args) == nil
}

func (b *MCPToolBridge) compiledSchema() (*jsonschema.Schema, error) {
	b.once.Do(func() {
		input := b.tool.InputSchema
		if input.Type == "" {
			input.Type = "object"
		}
		schemaBytes, err := json.Marshal(input)
		if err != nil {
			b.schemaErr = fmt.Errorf("invalid input schema: %w", err)
			return
		}
		var schemaObj any
		if err := json.Unmarshal(schemaBytes, &schemaObj); err != nil {
			b.schemaErr = fmt.Errorf("invalid input schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema.json", schemaObj); err != nil {
			b.schemaErr = fmt.Errorf("schema compile error: %w", err)
			return
		}
		b.schema, b.schemaErr = c.Compile("schema.json")
		if b.schemaErr != nil {
			b.schemaErr = fmt.Errorf("schema compile error: %w", b.schemaErr)
		}
	})
	return b.schema, b.schemaErr
}

// Execute calls the tool on its server. JSON output is decoded into the
// result data; anything else is returned as text.
func (b *MCPToolBridge) Execute(ctx context.Context, args map[string]interface{}) ToolResult {
	output, err := b.caller.CallTool(ctx, b.serverName, b.tool.Name, args)
	if err != nil {
		return Failed("MCP tool execution failed: %v", err)
	}

	data := map[string]interface{}{
		"server": b.serverName,
		"tool":   b.tool.Name,
		"output": output,
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(output), &decoded); err == nil {
		data["output"] = decoded
	}

	result := Succeeded(data)
	result.Metadata = map[string]interface{}{
		"source":    "mcp",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	return result
}
