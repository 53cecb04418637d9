package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	. "personaos/core/types"
)

// FileBrowserTool lists directory contents inside the workspace. It never
// writes and refuses paths that resolve outside the workspace.
type FileBrowserTool struct {
	Workspace string
}

// NewFileBrowserTool creates a browser rooted at workspace
func NewFileBrowserTool(workspace string) *FileBrowserTool {
	if abs, err := filepath.Abs(workspace); err == nil {
		workspace = abs
	}
	return &FileBrowserTool{Workspace: workspace}
}

func (t *FileBrowserTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "file_browser",
		Description: "List files and directories in a given path (relative to workspace)",
		Category:    CategoryFileSystem,
		RiskLevel:   RiskSafe,
		Parameters: []Parameter{
			{
				Name:        "path",
				Type:        "string",
				Required:    false,
				Description: "relative path from workspace root",
				Default:     ".",
				Example:     "notes",
			},
		},
		Examples: []string{
			`{"tool": "file_browser", "arguments": {"path": "notes"}}`,
			`{"tool": "file_browser", "arguments": {"path": "."}}`,
		},
	}
}

// ValidateArgs rejects a path argument that is not a string
func (t *FileBrowserTool) ValidateArgs(args map[string]interface{}) bool {
	if v, ok := args["path"]; ok && v != nil {
		_, isString := v.(string)
		return isString
	}
	return true
}

func (t *FileBrowserTool) Execute(_ context.Context, args map[string]interface{}) ToolResult {
	pathArg := StringArg(args, "path", ".")
	if pathArg == "" {
		pathArg = "."
	}

	fullPath := ResolvePath(pathArg, t.Workspace)
	if !WithinWorkspace(fullPath, t.Workspace) {
		return Failed("Access denied: path outside workspace")
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return Failed("Error reading directory: %v", err)
	}

	dirs := make([]string, 0)
	files := make([]map[string]interface{}, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
			continue
		}
		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, map[string]interface{}{
			"name": entry.Name(),
			"size": size,
		})
	}
	sort.Strings(dirs)

	return Succeeded(map[string]interface{}{
		"path":        pathArg,
		"directories": dirs,
		"files":       files,
		"count":       len(dirs) + len(files),
	})
}
