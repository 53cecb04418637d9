package intent

import (
	"fmt"
)

// FormatToolResponse renders tool output as a sentence for the user
func FormatToolResponse(tool string, data map[string]interface{}) string {
	switch tool {
	case "web_search":
		return fmt.Sprintf("I found search results for '%s'. Here's what I found: %s",
			field(data, "query", ""), firstSnippet(data))
	case "weather":
		return fmt.Sprintf("The weather in %s is %s with a temperature of %s.",
			field(data, "location", "your area"),
			field(data, "condition", "unknown"),
			field(data, "temperature", "unknown"))
	case "time":
		return fmt.Sprintf("The current time is %s", field(data, "formatted", "unknown"))
	case "calculator":
		return fmt.Sprintf("The answer is: %s", field(data, "formatted", "calculation error"))
	case "timer":
		return field(data, "message", "Timer set successfully")
	default:
		return fmt.Sprintf("Tool %s executed successfully: %v", tool, data)
	}
}

func field(data map[string]interface{}, key, def string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// firstSnippet accepts results decoded from JSON as well as native slices
func firstSnippet(data map[string]interface{}) string {
	const none = "No results available"

	var first map[string]interface{}
	switch results := data["results"].(type) {
	case []map[string]interface{}:
		if len(results) > 0 {
			first = results[0]
		}
	case []interface{}:
		if len(results) > 0 {
			first, _ = results[0].(map[string]interface{})
		}
	}

	if first == nil {
		return none
	}
	if s := field(first, "snippet", none); s != "" {
		return s
	}
	return none
}
