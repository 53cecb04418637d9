package intent

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// SafetyLevel is the authorization tier of an intent
type SafetyLevel string

const (
	SafetySafe    SafetyLevel = "safe"
	SafetyCaution SafetyLevel = "caution"
	SafetyUnsafe  SafetyLevel = "unsafe"
	SafetyBlocked SafetyLevel = "blocked"
)

// SafetyResult is the validator's decision for one intent
type SafetyResult struct {
	Level           SafetyLevel `json:"level"`
	Allowed         bool        `json:"allowed"`
	Reason          string      `json:"reason"`
	SuggestedAction string      `json:"suggested_action,omitempty"`
}

type sensitivePattern struct {
	expr string
	re   *regexp.Regexp
}

// Validator decides whether a classified intent may proceed.
//
// Tool checks are layered: blocked commands are refused, safe tools have
// their arguments inspected, restricted tools pass with a caution, and
// unknown tools also pass with a caution so they are monitored rather than
// silently trusted or silently refused.
type Validator struct {
	blockedCommands   map[string]struct{}
	sensitivePatterns []sensitivePattern
	safeTools         map[string]struct{}
	restrictedTools   map[string]string
	mu                sync.RWMutex
}

// NewValidator creates a validator with the default policy tables
func NewValidator() *Validator {
	v := &Validator{
		blockedCommands: make(map[string]struct{}, len(defaultBlockedCommands)),
		safeTools:       make(map[string]struct{}, len(defaultSafeTools)),
		restrictedTools: make(map[string]string, len(defaultRestrictedTools)),
	}

	for _, cmd := range defaultBlockedCommands {
		v.blockedCommands[cmd] = struct{}{}
	}
	for _, expr := range defaultSensitivePatterns {
		v.sensitivePatterns = append(v.sensitivePatterns, sensitivePattern{
			expr: expr,
			re:   regexp.MustCompile(expr),
		})
	}
	for _, tool := range defaultSafeTools {
		v.safeTools[tool] = struct{}{}
	}
	for tool, restriction := range defaultRestrictedTools {
		v.restrictedTools[tool] = restriction
	}

	return v
}

// ValidateIntent returns exactly one decision for any intent
func (v *Validator) ValidateIntent(result IntentResult) SafetyResult {
	if result.Intent == IntentUnsafe {
		return SafetyResult{
			Level:   SafetyBlocked,
			Allowed: false,
			Reason:  "Intent classified as unsafe by pattern matching",
		}
	}

	if result.Tool != "" {
		return v.validateToolUsage(result.Tool, result.Args)
	}

	return SafetyResult{
		Level:   SafetySafe,
		Allowed: true,
		Reason:  "Safe response intent",
	}
}

func (v *Validator) validateToolUsage(tool string, args map[string]interface{}) SafetyResult {
	v.mu.RLock()
	_, blocked := v.blockedCommands[tool]
	_, safe := v.safeTools[tool]
	restriction, restricted := v.restrictedTools[tool]
	v.mu.RUnlock()

	switch {
	case blocked:
		return SafetyResult{
			Level:   SafetyBlocked,
			Allowed: false,
			Reason:  fmt.Sprintf("Tool '%s' is in blocked commands list", tool),
		}
	case safe:
		return v.validateToolArgs(tool, args)
	case restricted:
		return SafetyResult{
			Level:           SafetyCaution,
			Allowed:         true,
			Reason:          fmt.Sprintf("Tool '%s' has restrictions: %s", tool, restriction),
			SuggestedAction: "Proceed with limited functionality",
		}
	default:
		return SafetyResult{
			Level:           SafetyCaution,
			Allowed:         true,
			Reason:          fmt.Sprintf("Unknown tool '%s' - proceeding with caution", tool),
			SuggestedAction: "Monitor execution closely",
		}
	}
}

func (v *Validator) validateToolArgs(tool string, args map[string]interface{}) SafetyResult {
	if len(args) == 0 {
		return SafetyResult{
			Level:   SafetySafe,
			Allowed: true,
			Reason:  "No arguments to validate",
		}
	}

	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := args[key].(string)
		if !ok {
			continue
		}
		if check := v.CheckText(value); !check.Allowed {
			return SafetyResult{
				Level:   SafetyUnsafe,
				Allowed: false,
				Reason:  fmt.Sprintf("Unsafe content in argument '%s': %s", key, check.Reason),
			}
		}
	}

	switch tool {
	case "web_search":
		query, _ := args["query"].(string)
		return v.validateSearchQuery(query)
	case "file_browser":
		path, _ := args["path"].(string)
		return validateFileAccess(path)
	}

	return SafetyResult{
		Level:   SafetySafe,
		Allowed: true,
		Reason:  "Arguments passed safety validation",
	}
}

// CheckText scores free text against the sensitive patterns and
// suspicious keywords
func (v *Validator) CheckText(text string) SafetyResult {
	lower := strings.ToLower(text)

	v.mu.RLock()
	patterns := v.sensitivePatterns
	v.mu.RUnlock()

	for _, p := range patterns {
		if p.re.MatchString(lower) {
			return SafetyResult{
				Level:   SafetyUnsafe,
				Allowed: false,
				Reason:  fmt.Sprintf("Text contains sensitive pattern: %s", p.expr),
			}
		}
	}

	for _, keyword := range suspiciousKeywords {
		if strings.Contains(lower, keyword) {
			return SafetyResult{
				Level:           SafetyCaution,
				Allowed:         true,
				Reason:          fmt.Sprintf("Text contains potentially sensitive keyword: %s", keyword),
				SuggestedAction: "Review content before proceeding",
			}
		}
	}

	return SafetyResult{
		Level:   SafetySafe,
		Allowed: true,
		Reason:  "Text passed safety checks",
	}
}

func (v *Validator) validateSearchQuery(query string) SafetyResult {
	if strings.TrimSpace(query) == "" {
		return SafetyResult{
			Level:   SafetyUnsafe,
			Allowed: false,
			Reason:  "Empty search query",
		}
	}

	if utf8.RuneCountInString(query) > maxSearchQueryLength {
		return SafetyResult{
			Level:           SafetyCaution,
			Allowed:         true,
			Reason:          "Search query is unusually long",
			SuggestedAction: fmt.Sprintf("Truncate query to first %d characters", maxSearchQueryLength),
		}
	}

	return v.CheckText(query)
}

func validateFileAccess(path string) SafetyResult {
	if path == "" {
		return SafetyResult{
			Level:   SafetySafe,
			Allowed: true,
			Reason:  "No specific path provided",
		}
	}

	lower := strings.ToLower(path)
	for _, dangerous := range dangerousPaths {
		if strings.Contains(lower, strings.ToLower(dangerous)) {
			return SafetyResult{
				Level:   SafetyBlocked,
				Allowed: false,
				Reason:  fmt.Sprintf("Access to restricted path: %s", dangerous),
			}
		}
	}

	return SafetyResult{
		Level:   SafetySafe,
		Allowed: true,
		Reason:  "File path appears safe",
	}
}

// AddBlockedCommand refuses tool from now on
func (v *Validator) AddBlockedCommand(tool string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.blockedCommands[tool] = struct{}{}
}

// AddSafeTool marks tool as safe, subject to argument checks
func (v *Validator) AddSafeTool(tool string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.safeTools[tool] = struct{}{}
}

// AddRestrictedTool allows tool with a caution describing the restriction
func (v *Validator) AddRestrictedTool(tool, restriction string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.restrictedTools[tool] = restriction
}

// IsBlocked reports whether tool is in the blocked-command set
func (v *Validator) IsBlocked(tool string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.blockedCommands[tool]
	return ok
}
