package system

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	. "personaos/core/types"
)

// maxTimerSeconds is the longest countdown a time.Duration can hold
const maxTimerSeconds = math.MaxInt64 / int64(time.Second)

var unitSeconds = map[string]int{
	"second": 1,
	"minute": 60,
	"hour":   3600,
}

type timerEntry struct {
	Duration     int
	Unit         string
	TotalSeconds int
	EndTime      time.Time
	StartedAt    time.Time
}

// TimerTool keeps an in-memory table of countdown timers
type TimerTool struct {
	timers map[string]timerEntry
	mu     sync.Mutex
	now    func() time.Time
}

// NewTimerTool creates a timer tool with an empty table
func NewTimerTool() *TimerTool {
	return &TimerTool{
		timers: make(map[string]timerEntry),
		now:    time.Now,
	}
}

func (t *TimerTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "timer",
		Description: "Set a timer for a specified duration",
		Category:    CategorySystem,
		RiskLevel:   RiskModerate,
		Parameters: []Parameter{
			{
				Name:        "duration",
				Type:        "int",
				Required:    false,
				Description: "How many units to count down",
				Default:     5,
				Example:     "10",
			},
			{
				Name:        "unit",
				Type:        "string",
				Required:    false,
				Description: "second, minute or hour",
				Default:     "minute",
				Example:     "minute",
			},
		},
		Examples: []string{
			`{"tool": "timer", "arguments": {"duration": 10, "unit": "minute"}}`,
		},
	}
}

// ValidateArgs rejects a duration that is not a number
func (t *TimerTool) ValidateArgs(args map[string]interface{}) bool {
	_, ok := IntArg(args, "duration", 5)
	return ok
}

func (t *TimerTool) Execute(_ context.Context, args map[string]interface{}) ToolResult {
	duration, _ := IntArg(args, "duration", 5)
	unit := StringArg(args, "unit", "minute")

	if duration <= 0 {
		return Failed("Duration must be positive")
	}

	multiplier, ok := unitSeconds[unit]
	if !ok {
		return Failed("Invalid time unit: %s. Use second, minute, or hour", unit)
	}

	if int64(duration) > maxTimerSeconds/int64(multiplier) {
		return Failed("Duration too long: %d %s", duration, unit)
	}

	totalSeconds := duration * multiplier
	now := t.now()
	id := newTimerID(now)

	t.mu.Lock()
	t.timers[id] = timerEntry{
		Duration:     duration,
		Unit:         unit,
		TotalSeconds: totalSeconds,
		EndTime:      now.Add(time.Duration(totalSeconds) * time.Second),
		StartedAt:    now,
	}
	t.mu.Unlock()

	plural := ""
	if duration > 1 {
		plural = "s"
	}

	return Succeeded(map[string]interface{}{
		"timer_id":      id,
		"duration":      duration,
		"unit":          unit,
		"total_seconds": totalSeconds,
		"message":       fmt.Sprintf("Timer set for %d %s%s", duration, unit, plural),
	})
}

// CheckTimer reports the state of a timer. A finished timer is reported
// once and then forgotten.
func (t *TimerTool) CheckTimer(id string) ToolResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.timers[id]
	if !ok {
		return Failed("Timer not found")
	}

	remaining := entry.EndTime.Sub(t.now())
	if remaining <= 0 {
		delete(t.timers, id)
		return Succeeded(map[string]interface{}{
			"timer_id": id,
			"status":   "completed",
			"message":  "Timer has finished!",
		})
	}

	secs := int(remaining / time.Second)
	return Succeeded(map[string]interface{}{
		"timer_id":            id,
		"status":              "running",
		"remaining_seconds":   secs,
		"remaining_formatted": fmt.Sprintf("%d:%02d", secs/60, secs%60),
	})
}

// Active returns the number of timers not yet reported as completed
func (t *TimerTool) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}

// newTimerID keeps the epoch second for readability and adds a random
// suffix so timers created in the same second stay distinct
func newTimerID(now time.Time) string {
	return fmt.Sprintf("timer_%d_%s", now.Unix(), uuid.NewString()[:8])
}

// CheckTimerTool exposes TimerTool.CheckTimer through the registry
type CheckTimerTool struct {
	Timers *TimerTool
}

func (t *CheckTimerTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "check_timer",
		Description: "Check the remaining time of a timer",
		Category:    CategorySystem,
		RiskLevel:   RiskSafe,
		Parameters: []Parameter{
			{
				Name:        "timer_id",
				Type:        "string",
				Required:    true,
				Description: "Identifier returned when the timer was set",
				Example:     "timer_1700000000_1a2b3c4d",
			},
		},
		Examples: []string{
			`{"tool": "check_timer", "arguments": {"timer_id": "timer_1700000000_1a2b3c4d"}}`,
		},
	}
}

func (t *CheckTimerTool) Execute(_ context.Context, args map[string]interface{}) ToolResult {
	return t.Timers.CheckTimer(StringArg(args, "timer_id", ""))
}
