package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "notes"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.txt"), []byte("buy milk"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes", "a.md"), []byte("# a"), 0644))
	return dir
}

func TestFileBrowser_ListsWorkspace(t *testing.T) {
	tool := NewFileBrowserTool(setupWorkspace(t))

	result := tool.Execute(context.Background(), nil)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, ".", result.Data["path"])
	assert.Equal(t, []string{"notes"}, result.Data["directories"])
	assert.Equal(t, 2, result.Data["count"])

	files := result.Data["files"].([]map[string]interface{})
	require.Len(t, files, 1)
	assert.Equal(t, "todo.txt", files[0]["name"])
	assert.EqualValues(t, 8, files[0]["size"])
}

func TestFileBrowser_Subdirectory(t *testing.T) {
	tool := NewFileBrowserTool(setupWorkspace(t))

	result := tool.Execute(context.Background(), map[string]interface{}{"path": "notes"})
	require.True(t, result.Success, result.Error)
	files := result.Data["files"].([]map[string]interface{})
	require.Len(t, files, 1)
	assert.Equal(t, "a.md", files[0]["name"])
}

func TestFileBrowser_OutsideWorkspace(t *testing.T) {
	tool := NewFileBrowserTool(setupWorkspace(t))

	for _, path := range []string{"..", "../..", "/"} {
		result := tool.Execute(context.Background(), map[string]interface{}{"path": path})
		assert.False(t, result.Success, path)
		assert.Equal(t, "Access denied: path outside workspace", result.Error)
	}
}

func TestFileBrowser_Missing(t *testing.T) {
	tool := NewFileBrowserTool(setupWorkspace(t))

	result := tool.Execute(context.Background(), map[string]interface{}{"path": "nope"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Error reading directory")
}

func TestFileBrowser_ValidateArgs(t *testing.T) {
	tool := NewFileBrowserTool(t.TempDir())

	assert.True(t, tool.ValidateArgs(map[string]interface{}{}))
	assert.True(t, tool.ValidateArgs(map[string]interface{}{"path": "x"}))
	assert.False(t, tool.ValidateArgs(map[string]interface{}{"path": 42}))
}

func TestWithinWorkspace(t *testing.T) {
	assert.True(t, WithinWorkspace("/ws", "/ws"))
	assert.True(t, WithinWorkspace("/ws/a/b", "/ws"))
	assert.True(t, WithinWorkspace("/ws/..hidden", "/ws"))
	assert.False(t, WithinWorkspace("/wsx", "/ws"))
	assert.False(t, WithinWorkspace("/", "/ws"))
}
