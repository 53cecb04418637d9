// Package capabilities bundles the built-in tools.
package capabilities

import (
	"personaos/capabilities/calc"
	"personaos/capabilities/filesystem"
	"personaos/capabilities/system"
	"personaos/capabilities/web"
	"personaos/core/types"
)

// Registrar accepts tools; *registry.Registry satisfies it
type Registrar interface {
	Register(tool types.Tool)
}

// Options selects and configures the built-in tools
type Options struct {
	Search    []web.SearchOption
	Workspace string // file_browser is registered only when set
	Disabled  map[string]bool
}

// Defaults returns the built-in tools, honoring opts
func Defaults(opts Options) []types.Tool {
	timers := system.NewTimerTool()

	tools := []types.Tool{
		web.NewSearchTool(opts.Search...),
		&web.WeatherTool{},
		system.NewTimeTool(),
		&calc.CalculatorTool{},
		timers,
		&system.CheckTimerTool{Timers: timers},
	}
	if opts.Workspace != "" {
		tools = append(tools, filesystem.NewFileBrowserTool(opts.Workspace))
	}

	enabled := tools[:0]
	for _, tool := range tools {
		if !opts.Disabled[tool.Metadata().Name] {
			enabled = append(enabled, tool)
		}
	}
	return enabled
}

// RegisterDefaults registers the built-in tools with r
func RegisterDefaults(r Registrar, opts Options) {
	for _, tool := range Defaults(opts) {
		r.Register(tool)
	}
}
