package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath resolves a path relative to workspace, handling tilde and absolute paths
func ResolvePath(pathArg string, workspace string) string {
	if strings.HasPrefix(pathArg, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if pathArg == "~" {
				pathArg = homeDir
			} else if strings.HasPrefix(pathArg, "~/") {
				pathArg = filepath.Join(homeDir, pathArg[2:])
			}
		}
	}

	// Absolute paths used as-is, relative paths joined with workspace
	var fullPath string
	if filepath.IsAbs(pathArg) {
		fullPath = pathArg
	} else {
		fullPath = filepath.Join(workspace, pathArg)
	}

	return filepath.Clean(fullPath)
}

// WithinWorkspace reports whether path is workspace or below it
func WithinWorkspace(path, workspace string) bool {
	rel, err := filepath.Rel(filepath.Clean(workspace), path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
