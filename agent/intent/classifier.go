package intent

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// IntentType is the classified purpose of an utterance
type IntentType string

const (
	IntentSafeResponse IntentType = "safe_response"
	IntentToolRequired IntentType = "tool_required"
	IntentUnsafe       IntentType = "unsafe"
)

// String returns the string representation of an intent
func (i IntentType) String() string {
	return string(i)
}

// IntentResult is the classifier's guess for one utterance
type IntentResult struct {
	Intent     IntentType             `json:"intent"`
	Confidence float64                `json:"confidence"`
	Tool       string                 `json:"tool,omitempty"`
	Args       map[string]interface{} `json:"args,omitempty"`
	Reason     string                 `json:"reason,omitempty"`
}

const (
	reasonEmptyInput = "Empty input"
	reasonNoMatch    = "No specific pattern matched, defaulting to safe response"
)

var (
	searchQueryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:search|look up|find|google)\s+(?:for|about)?\s*(.+)`),
		regexp.MustCompile(`(?i)(.+?)(?:\s+(?:search|lookup|find))`),
	}
	locationPattern = regexp.MustCompile(`(?i)(?:in|for|at)\s+(.+)`)
	durationPattern = regexp.MustCompile(`(\d+)`)
	timeUnits       = []string{"second", "minute", "hour"}
)

// Classifier matches utterances against an ordered pattern list.
// The first matching pattern wins.
type Classifier struct {
	patterns []*Pattern
	mu       sync.RWMutex
}

// NewClassifier creates a classifier loaded with the built-in patterns
func NewClassifier() *Classifier {
	c := &Classifier{}
	c.patterns = append(c.patterns, unsafePatterns()...)
	c.patterns = append(c.patterns, toolPatterns()...)
	c.patterns = append(c.patterns, safePatterns()...)
	return c
}

func unsafePatterns() []*Pattern {
	exprs := []string{
		`(delete|remove|erase).*(file|folder|directory|system)`,
		`(shutdown|restart|reboot).*(computer|system)`,
		`(install|download).*(software|program|app)`,
		`(access|hack|break).*(password|security|account)`,
		`(send|share).*(personal|private|sensitive)`,
	}

	patterns := make([]*Pattern, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, MustPattern(expr, IntentUnsafe, "", nil))
	}
	return patterns
}

func toolPatterns() []*Pattern {
	return []*Pattern{
		MustPattern(`(search|look up|find|google).+?(for|about)?\s*(.+)`, IntentToolRequired, "web_search",
			map[string]Extractor{
				"query": Computed(func(text string, _ []string) interface{} { return extractSearchQuery(text) }),
			}),
		MustPattern(`(weather|temperature|forecast).+?(in|for|at)?\s*(.+)`, IntentToolRequired, "weather",
			map[string]Extractor{
				"location": Computed(func(text string, _ []string) interface{} { return extractLocation(text) }),
			}),
		MustPattern(`(set|start).+?(timer|alarm).+?(\d+)\s*(minute|hour|second)`, IntentToolRequired, "timer",
			map[string]Extractor{
				"duration": Computed(func(text string, _ []string) interface{} { return extractDuration(text) }),
				"unit":     Computed(func(text string, _ []string) interface{} { return extractTimeUnit(text) }),
			}),
		MustPattern(`(what.+?time|current time|time is it)`, IntentToolRequired, "time", nil),
		MustPattern(`(?:calculate|compute|evaluate)\s+(?P<expression>[0-9(][0-9+\-*/.() ]*[0-9)]|[0-9])`, IntentToolRequired, "calculator",
			map[string]Extractor{
				"expression": ByGroup("expression"),
			}),
	}
}

func safePatterns() []*Pattern {
	return []*Pattern{
		MustPattern(`(tell me|give me).+?(joke|story|fact)`, IntentSafeResponse, "", nil),
		MustPattern(`(how are you|hello|hi|hey)`, IntentSafeResponse, "", nil),
		MustPattern(`(explain|what is|define).+`, IntentSafeResponse, "", nil),
	}
}

// Classify returns exactly one result for any input
func (c *Classifier) Classify(text string) IntentResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return IntentResult{
			Intent:     IntentSafeResponse,
			Confidence: 0.5,
			Reason:     reasonEmptyInput,
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, pattern := range c.patterns {
		if result, ok := pattern.Match(text); ok {
			return result
		}
	}

	return IntentResult{
		Intent:     IntentSafeResponse,
		Confidence: 0.3,
		Reason:     reasonNoMatch,
	}
}

// AddPattern gives p priority over every existing pattern
func (c *Classifier) AddPattern(p *Pattern) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.patterns = append([]*Pattern{p}, c.patterns...)
}

// Patterns returns a snapshot of the ordered pattern list
func (c *Classifier) Patterns() []*Pattern {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Pattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

func extractSearchQuery(text string) string {
	for _, re := range searchQueryPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return text
}

func extractLocation(text string) string {
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	words := strings.Fields(text)
	if len(words) > 1 {
		return strings.Join(words[len(words)-2:], " ")
	}

	return "current location"
}

// extractDuration returns the first number in text. A number too large for
// an int is passed through as text so the timer rejects it.
func extractDuration(text string) interface{} {
	m := durationPattern.FindString(text)
	if m == "" {
		return 5
	}
	if n, err := strconv.Atoi(m); err == nil {
		return n
	}
	return m
}

func extractTimeUnit(text string) string {
	lower := strings.ToLower(text)
	for _, unit := range timeUnits {
		if strings.Contains(lower, unit) {
			return unit
		}
	}
	return "minute"
}
