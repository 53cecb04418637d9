package web

import (
	"context"
	"time"

	. "personaos/core/types"
)

// WeatherTool reports a fixed reading for any location
type WeatherTool struct{}

func (t *WeatherTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "weather",
		Description: "Get weather information for a location",
		Category:    CategoryWeb,
		RiskLevel:   RiskSafe,
		Parameters: []Parameter{
			{
				Name:        "location",
				Type:        "string",
				Required:    false,
				Description: "City or place name",
				Default:     "current location",
				Example:     "London",
			},
		},
		Examples: []string{
			`{"tool": "weather", "arguments": {"location": "London"}}`,
		},
	}
}

func (t *WeatherTool) Execute(_ context.Context, args map[string]interface{}) ToolResult {
	location := StringArg(args, "location", "")
	if location == "" {
		location = "current location"
	}

	result := Succeeded(map[string]interface{}{
		"location":    location,
		"temperature": "22°C",
		"condition":   "Partly cloudy",
		"humidity":    "65%",
		"wind":        "10 km/h",
	})
	result.Metadata = map[string]interface{}{
		"source":    "placeholder",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	return result
}
