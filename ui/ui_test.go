package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"personaos/core/types"
)

func TestPrintToolHelp(t *testing.T) {
	var out bytes.Buffer
	PrintToolHelp(&out, []types.ToolMetadata{
		{Name: "mcp_fs_read_file", Description: "[MCP:fs] Read a file", Category: types.CategoryMCP},
		{Name: "calculator", Description: "Evaluate arithmetic", Category: types.CategoryMath, Examples: []string{"Calculate 2+2"}},
		{Name: "web_search", Description: "Search the web", Category: types.CategoryWeb},
		{Name: "custom", Description: "Plugin tool", Category: "plugins"},
	})

	got := out.String()
	web := strings.Index(got, "web (1):")
	math := strings.Index(got, "math (1):")
	mcp := strings.Index(got, "mcp (1):")
	plugins := strings.Index(got, "plugins (1):")

	assert.True(t, web >= 0 && web < math && math < mcp && mcp < plugins, got)
	assert.Contains(t, got, `e.g. "Calculate 2+2"`)
	assert.NotContains(t, got, "system (")
}

func TestRendererPlain(t *testing.T) {
	r := NewRenderer(false)

	assert.Equal(t, "You: ", r.UserPrefix())
	assert.Equal(t, "PersonaOS: ", r.AssistantPrefix())
	assert.Equal(t, "Error: nope", r.Error("nope"))
	assert.Equal(t, "# Title", r.Markdown("# Title"))
}

func TestStatusLineNonTTY(t *testing.T) {
	var out bytes.Buffer
	s := NewStatusLine(&out, false)

	s.Show("Loading")
	s.ShowWithSpinner("Thinking")
	s.Clear()

	assert.Equal(t, "Loading\nThinking\n", out.String())
}

func TestStatusLineSpinnerStops(t *testing.T) {
	var out syncBuffer
	s := NewStatusLine(&out, true)

	s.ShowWithSpinner("Thinking")
	time.Sleep(200 * time.Millisecond)
	s.Clear()

	written := out.String()
	assert.Contains(t, written, "Thinking")
	assert.True(t, strings.HasSuffix(written, "\r"), "line is erased on clear")

	// No frames after Clear returns
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, written, out.String())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
