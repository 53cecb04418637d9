package intent

import (
	"fmt"
	"regexp"
)

// Extractor derives one argument value from a matched utterance. It is
// either a capture-group reference or a function of the text and match.
type Extractor struct {
	group   string
	index   int
	compute func(text string, match []string) interface{}
}

// ByGroup extracts the named capture group
func ByGroup(name string) Extractor {
	return Extractor{group: name, index: -1}
}

// ByIndex extracts the numbered capture group
func ByIndex(i int) Extractor {
	return Extractor{index: i}
}

// Computed extracts a value by calling fn with the trimmed text and the
// submatches of the pattern (match[0] is the whole match).
func Computed(fn func(text string, match []string) interface{}) Extractor {
	return Extractor{index: -1, compute: fn}
}

// extract returns nil when the referenced group does not exist or did not
// take part in the match
func (e Extractor) extract(re *regexp.Regexp, text string, loc []int) interface{} {
	if e.compute != nil {
		return e.compute(text, submatches(text, loc))
	}

	idx := e.index
	if e.group != "" {
		idx = re.SubexpIndex(e.group)
	}
	if idx < 0 || 2*idx+1 >= len(loc) || loc[2*idx] < 0 {
		return nil
	}
	return text[loc[2*idx]:loc[2*idx+1]]
}

func submatches(text string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}

// Pattern pairs a case-insensitive matcher with an intent outcome
type Pattern struct {
	Matcher    *regexp.Regexp
	Intent     IntentType
	Tool       string
	Extractors map[string]Extractor
}

// NewPattern compiles expr case-insensitively
func NewPattern(expr string, intent IntentType, tool string, extractors map[string]Extractor) (*Pattern, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("invalid intent pattern %q: %w", expr, err)
	}
	return &Pattern{
		Matcher:    re,
		Intent:     intent,
		Tool:       tool,
		Extractors: extractors,
	}, nil
}

// MustPattern is NewPattern for built-in expressions
func MustPattern(expr string, intent IntentType, tool string, extractors map[string]Extractor) *Pattern {
	p, err := NewPattern(expr, intent, tool, extractors)
	if err != nil {
		panic(err)
	}
	return p
}

// Match returns the derived result and true when the pattern matches
// anywhere in text
func (p *Pattern) Match(text string) (IntentResult, bool) {
	loc := p.Matcher.FindStringSubmatchIndex(text)
	if loc == nil {
		return IntentResult{}, false
	}

	var args map[string]interface{}
	if len(p.Extractors) > 0 {
		args = make(map[string]interface{}, len(p.Extractors))
		for name, extractor := range p.Extractors {
			args[name] = extractor.extract(p.Matcher, text, loc)
		}
	}

	return IntentResult{
		Intent:     p.Intent,
		Confidence: 1.0,
		Tool:       p.Tool,
		Args:       args,
	}, true
}
