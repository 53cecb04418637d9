package types

import (
	"fmt"
	"strconv"
	"strings"
)

// StringArg returns args[key] as a trimmed string, or def when absent
func StringArg(args map[string]interface{}, key, def string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// IntArg returns args[key] as an int. Numbers decoded from JSON arrive as
// float64 and arguments captured from text arrive as strings, so both are
// accepted. ok is false when the value is present but not numeric.
func IntArg(args map[string]interface{}, key string, def int) (int, bool) {
	v, present := args[key]
	if !present || v == nil {
		return def, true
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
