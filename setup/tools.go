package setup

import (
	"fmt"

	"go.uber.org/zap"

	"personaos/agent/intent"
	"personaos/capabilities"
	"personaos/capabilities/web"
	"personaos/config"
	"personaos/core/audit"
	"personaos/core/registry"
)

// InitializeRegistry creates the tool registry with audit logging and the
// built-in tools selected by cfg
func InitializeRegistry(cfg *config.Config, logger *zap.Logger) *registry.Registry {
	r := registry.New(
		registry.WithLogger(logger),
		registry.WithAudit(audit.NewLogger(cfg.AuditLogPath(), cfg.Audit.Enabled)),
	)
	capabilities.RegisterDefaults(r, ToolOptions(cfg))
	return r
}

// ToolOptions maps the tools section onto capability options.
// file_browser is off unless enabled; every other tool is on unless
// disabled.
func ToolOptions(cfg *config.Config) capabilities.Options {
	opts := capabilities.Options{Disabled: map[string]bool{}}

	for name, t := range cfg.Tools {
		if t.Enabled != nil && !*t.Enabled {
			opts.Disabled[name] = true
		}
	}

	if cfg.IsToolEnabled("file_browser", false) {
		opts.Workspace = cfg.Workspace.Path
	}

	search := cfg.Tool("web_search")
	if search.Backend == "duckduckgo" {
		opts.Search = append(opts.Search, web.WithBackend(web.NewDuckDuckGo(search.Endpoint)))
	}
	if search.MaxResults != nil {
		opts.Search = append(opts.Search, web.WithMaxResults(*search.MaxResults))
	}

	return opts
}

// InitializeProcessor builds the intent pipeline over r and applies the
// policy and intent extensions from cfg
func InitializeProcessor(cfg *config.Config, r intent.ToolRunner, logger *zap.Logger) (*intent.Processor, error) {
	classifier := intent.NewClassifier()
	validator := intent.NewValidator()

	for _, cmd := range cfg.Policy.BlockedCommands {
		validator.AddBlockedCommand(cmd)
	}
	for _, tool := range cfg.Policy.SafeTools {
		validator.AddSafeTool(tool)
	}
	for tool, restriction := range cfg.Policy.RestrictedTools {
		validator.AddRestrictedTool(tool, restriction)
	}

	processor := intent.NewProcessor(classifier, validator, r, logger)

	// AddCustomPattern prepends, so walk backwards to keep the first
	// configured pattern first
	for i := len(cfg.Intents) - 1; i >= 0; i-- {
		ic := cfg.Intents[i]
		extractors := make(map[string]intent.Extractor, len(ic.Args))
		for arg, group := range ic.Args {
			extractors[arg] = intent.ByIndex(group)
		}
		pattern, err := intent.NewPattern(ic.Pattern, intent.IntentType(ic.Intent), ic.Tool, extractors)
		if err != nil {
			return nil, fmt.Errorf("intents[%d]: %w", i, err)
		}
		processor.AddCustomPattern(pattern)
	}

	return processor, nil
}
