package system

import (
	"context"
	"time"

	. "personaos/core/types"
)

// TimeTool reports the local wall-clock time
type TimeTool struct {
	now func() time.Time
}

// NewTimeTool creates the time tool using the system clock
func NewTimeTool() *TimeTool {
	return &TimeTool{now: time.Now}
}

func (t *TimeTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "time",
		Description: "Get current time and date",
		Category:    CategorySystem,
		RiskLevel:   RiskSafe,
		Parameters:  []Parameter{},
		Examples: []string{
			`{"tool": "time", "arguments": {}}`,
		},
	}
}

func (t *TimeTool) Execute(_ context.Context, _ map[string]interface{}) ToolResult {
	now := t.now()
	zone, _ := now.Zone()

	return Succeeded(map[string]interface{}{
		"current_time": now.Format("15:04:05"),
		"current_date": now.Format("2006-01-02"),
		"formatted":    now.Format("Monday, January 02, 2006 at 03:04 PM"),
		"timezone":     zone,
	})
}
