package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personaos/core/audit"
	. "personaos/core/types"
)

// mockTool is a configurable tool for registry tests
type mockTool struct {
	name      string
	validate  func(args map[string]interface{}) bool
	execute   func(ctx context.Context, args map[string]interface{}) ToolResult
	callCount int
}

func (m *mockTool) Metadata() ToolMetadata {
	return ToolMetadata{Name: m.name, Category: CategorySystem}
}

func (m *mockTool) Execute(ctx context.Context, args map[string]interface{}) ToolResult {
	m.callCount++
	if m.execute != nil {
		return m.execute(ctx, args)
	}
	return Succeeded(map[string]interface{}{"echo": args})
}

// validatingTool adds argument validation to mockTool
type validatingTool struct {
	*mockTool
}

func (v *validatingTool) ValidateArgs(args map[string]interface{}) bool {
	return v.validate(args)
}

func TestRegisterAndList(t *testing.T) {
	r := New()
	r.Register(&mockTool{name: "weather"})
	r.Register(&mockTool{name: "calculator"})
	r.Register(&mockTool{name: "time"})

	assert.Equal(t, []string{"calculator", "time", "weather"}, r.List())

	tool, ok := r.Get("time")
	require.True(t, ok)
	assert.Equal(t, "time", tool.Metadata().Name)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegisterOverwritesByName(t *testing.T) {
	r := New()
	first := &mockTool{name: "timer"}
	second := &mockTool{name: "timer"}

	r.Register(first)
	r.Register(second)

	assert.Len(t, r.List(), 1)
	r.Execute(context.Background(), "timer", nil)
	assert.Equal(t, 0, first.callCount)
	assert.Equal(t, 1, second.callCount)
}

func TestExecuteToolNotFound(t *testing.T) {
	r := New()

	result := r.Execute(context.Background(), "nonexistent_tool", nil)

	assert.False(t, result.Success)
	assert.Equal(t, "Tool 'nonexistent_tool' not found", result.Error)
}

func TestExecuteToolNotFoundSuggestsSimilar(t *testing.T) {
	r := New()
	r.Register(&mockTool{name: "weather"})
	r.Register(&mockTool{name: "web_search"})

	result := r.Execute(context.Background(), "wether", nil)

	require.False(t, result.Success)
	require.NotNil(t, result.Metadata)
	assert.Contains(t, result.Metadata["suggestions"], "weather")
}

func TestExecuteInvalidArguments(t *testing.T) {
	r := New()
	tool := &validatingTool{mockTool: &mockTool{
		name:     "strict",
		validate: func(args map[string]interface{}) bool { return args["ok"] == true },
	}}
	r.Register(tool)

	result := r.Execute(context.Background(), "strict", map[string]interface{}{"ok": false})
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid arguments for tool 'strict'", result.Error)
	assert.Equal(t, 0, tool.callCount)

	result = r.Execute(context.Background(), "strict", map[string]interface{}{"ok": true})
	assert.True(t, result.Success)
}

func TestExecuteRecoversPanics(t *testing.T) {
	r := New()
	r.Register(&mockTool{
		name: "faulty",
		execute: func(ctx context.Context, args map[string]interface{}) ToolResult {
			panic("kaboom")
		},
	})

	var result ToolResult
	require.NotPanics(t, func() {
		result = r.Execute(context.Background(), "faulty", nil)
	})

	assert.False(t, result.Success)
	assert.Equal(t, "Error executing tool 'faulty': kaboom", result.Error)
}

func TestExecuteStatusHandlerPhases(t *testing.T) {
	r := New()
	r.Register(&mockTool{name: "time"})

	var phases []string
	r.StatusHandler = func(toolName string, phase string) {
		phases = append(phases, toolName+":"+phase)
	}

	r.Execute(context.Background(), "time", nil)
	assert.Equal(t, []string{"time:executing", "time:completed"}, phases)
}

func TestExecuteWritesAudit(t *testing.T) {
	auditLog := audit.NewLogger(filepath.Join(t.TempDir(), "audit.log"), true)
	r := New(WithAudit(auditLog))
	r.Register(&mockTool{name: "weather"})

	ctx := WithUserQuery(context.Background(), "weather in Paris")
	r.Execute(ctx, "weather", map[string]interface{}{"location": "Paris"})

	logs, err := auditLog.ReadAll()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "weather", logs[0].ToolName)
	assert.Equal(t, "weather in Paris", logs[0].UserQuery)
	assert.True(t, logs[0].Success)
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"timer", "timer", 0},
		{"timr", "timer", 1},
		{"wether", "weather", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}
