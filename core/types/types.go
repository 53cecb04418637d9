package types

import (
	"context"
	"fmt"
)

// ToolCategory represents the category of a tool
type ToolCategory string

const (
	CategoryWeb        ToolCategory = "web"
	CategorySystem     ToolCategory = "system"
	CategoryMath       ToolCategory = "math"
	CategoryFileSystem ToolCategory = "filesystem"
	CategoryMCP        ToolCategory = "mcp"
)

// RiskLevel indicates how dangerous a tool operation is
type RiskLevel string

const (
	RiskSafe      RiskLevel = "safe"      // Read-only, no side effects
	RiskModerate  RiskLevel = "moderate"  // Mutates in-process or external state
	RiskDangerous RiskLevel = "dangerous" // System commands
)

// Parameter describes a single named tool argument
type Parameter struct {
	Name        string
	Type        string // string, int, bool, object
	Required    bool
	Description string
	Default     interface{}
	Example     string
}

// ToolMetadata contains information about a tool
type ToolMetadata struct {
	Name        string
	Description string
	Category    ToolCategory
	RiskLevel   RiskLevel
	Parameters  []Parameter
	Examples    []string
}

// ToolResult is the uniform outcome of a tool execution.
// Data is tool specific; Error is set when Success is false.
type ToolResult struct {
	Success  bool                   `json:"success"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Succeeded builds a successful result carrying data
func Succeeded(data map[string]interface{}) ToolResult {
	return ToolResult{Success: true, Data: data}
}

// Failed builds a failed result with a human-readable message
func Failed(format string, args ...interface{}) ToolResult {
	if len(args) == 0 {
		return ToolResult{Error: format}
	}
	return ToolResult{Error: fmt.Sprintf(format, args...)}
}

// Tool is a named capability the registry can run
type Tool interface {
	Metadata() ToolMetadata
	Execute(ctx context.Context, args map[string]interface{}) ToolResult
}

// ArgValidator is implemented by tools that want to reject arguments
// before execution. Tools without it accept every argument set.
type ArgValidator interface {
	ValidateArgs(args map[string]interface{}) bool
}

// ToolCall represents a request to execute a tool
type ToolCall struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
}
