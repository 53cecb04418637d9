package ui

import (
	"fmt"
	"io"
	"sort"

	. "personaos/core/types"
)

var categoryOrder = []ToolCategory{CategoryWeb, CategorySystem, CategoryMath, CategoryFileSystem, CategoryMCP}

// PrintToolHelp writes the available tools grouped by category
func PrintToolHelp(w io.Writer, tools []ToolMetadata) {
	fmt.Fprintln(w, "\n=== Available Tools ===")

	categories := make(map[ToolCategory][]ToolMetadata)
	for _, meta := range tools {
		categories[meta.Category] = append(categories[meta.Category], meta)
	}

	order := append([]ToolCategory(nil), categoryOrder...)
	var extra []ToolCategory
	for cat := range categories {
		if !containsCategory(categoryOrder, cat) {
			extra = append(extra, cat)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order = append(order, extra...)

	for _, cat := range order {
		metas := categories[cat]
		if len(metas) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d):\n", cat, len(metas))
		for _, meta := range metas {
			fmt.Fprintf(w, "  %-20s %s\n", meta.Name, meta.Description)
			for _, example := range meta.Examples {
				fmt.Fprintf(w, "  %-20s e.g. %q\n", "", example)
			}
		}
	}
	fmt.Fprintln(w)
}

func containsCategory(list []ToolCategory, cat ToolCategory) bool {
	for _, c := range list {
		if c == cat {
			return true
		}
	}
	return false
}
