package system

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTimer() (*TimerTool, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)}
	tool := NewTimerTool()
	tool.now = clock.Now
	return tool, clock
}

func TestTimeTool(t *testing.T) {
	tool := NewTimeTool()
	tool.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	result := tool.Execute(context.Background(), nil)
	require.True(t, result.Success)
	assert.Equal(t, "14:05:07", result.Data["current_time"])
	assert.Equal(t, "2024-03-09", result.Data["current_date"])
	assert.Equal(t, "Saturday, March 09, 2024 at 02:05 PM", result.Data["formatted"])
	assert.Equal(t, "UTC", result.Data["timezone"])
}

func TestTimerTool_Set(t *testing.T) {
	tool, clock := newTestTimer()

	result := tool.Execute(context.Background(), map[string]interface{}{"duration": 5, "unit": "minute"})
	require.True(t, result.Success)
	assert.Equal(t, 300, result.Data["total_seconds"])
	assert.Equal(t, "Timer set for 5 minutes", result.Data["message"])

	id := result.Data["timer_id"].(string)
	prefix := fmt.Sprintf("timer_%d_", clock.t.Unix())
	assert.True(t, strings.HasPrefix(id, prefix), id)
	assert.Len(t, id, len(prefix)+8)
	assert.Equal(t, 1, tool.Active())

	clock.Advance(time.Second)
	other := tool.Execute(context.Background(), map[string]interface{}{"duration": 5, "unit": "minute"})
	assert.NotEqual(t, id, other.Data["timer_id"])
}

func TestTimerTool_SameSecondIDsDiffer(t *testing.T) {
	tool, _ := newTestTimer()

	a := tool.Execute(context.Background(), map[string]interface{}{"duration": 1, "unit": "second"})
	b := tool.Execute(context.Background(), map[string]interface{}{"duration": 1, "unit": "second"})

	require.True(t, a.Success)
	require.True(t, b.Success)
	assert.NotEqual(t, a.Data["timer_id"], b.Data["timer_id"])
	assert.Equal(t, "Timer set for 1 second", a.Data["message"])
	assert.Equal(t, 2, tool.Active())
}

func TestTimerTool_Defaults(t *testing.T) {
	tool, _ := newTestTimer()

	result := tool.Execute(context.Background(), nil)
	require.True(t, result.Success)
	assert.Equal(t, 5, result.Data["duration"])
	assert.Equal(t, "minute", result.Data["unit"])
	assert.Equal(t, 300, result.Data["total_seconds"])
}

func TestTimerTool_Errors(t *testing.T) {
	tool, _ := newTestTimer()

	result := tool.Execute(context.Background(), map[string]interface{}{"duration": 0})
	assert.False(t, result.Success)
	assert.Equal(t, "Duration must be positive", result.Error)

	result = tool.Execute(context.Background(), map[string]interface{}{"duration": -3, "unit": "hour"})
	assert.Equal(t, "Duration must be positive", result.Error)

	result = tool.Execute(context.Background(), map[string]interface{}{"duration": 2, "unit": "day"})
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid time unit: day. Use second, minute, or hour", result.Error)

	result = tool.Execute(context.Background(), map[string]interface{}{"duration": 2, "unit": "Minute"})
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid time unit: Minute. Use second, minute, or hour", result.Error)

	result = tool.Execute(context.Background(), map[string]interface{}{"duration": 100000000, "unit": "hour"})
	assert.False(t, result.Success)
	assert.Equal(t, "Duration too long: 100000000 hour", result.Error)

	assert.Equal(t, 0, tool.Active())
}

func TestTimerTool_ValidateArgs(t *testing.T) {
	tool, _ := newTestTimer()

	assert.True(t, tool.ValidateArgs(map[string]interface{}{"duration": "10"}))
	assert.True(t, tool.ValidateArgs(map[string]interface{}{"duration": float64(3)}))
	assert.True(t, tool.ValidateArgs(map[string]interface{}{}))
	assert.False(t, tool.ValidateArgs(map[string]interface{}{"duration": "ten"}))
	assert.False(t, tool.ValidateArgs(map[string]interface{}{"duration": "99999999999999999999"}))
}

func TestTimerTool_CheckTimer(t *testing.T) {
	tool, clock := newTestTimer()

	set := tool.Execute(context.Background(), map[string]interface{}{"duration": 2, "unit": "minute"})
	id := set.Data["timer_id"].(string)

	clock.Advance(30 * time.Second)
	running := tool.CheckTimer(id)
	require.True(t, running.Success)
	assert.Equal(t, "running", running.Data["status"])
	assert.Equal(t, 90, running.Data["remaining_seconds"])
	assert.Equal(t, "1:30", running.Data["remaining_formatted"])

	clock.Advance(2 * time.Minute)
	done := tool.CheckTimer(id)
	require.True(t, done.Success)
	assert.Equal(t, "completed", done.Data["status"])
	assert.Equal(t, "Timer has finished!", done.Data["message"])

	gone := tool.CheckTimer(id)
	assert.False(t, gone.Success)
	assert.Equal(t, "Timer not found", gone.Error)
	assert.Equal(t, 0, tool.Active())
}

func TestCheckTimerTool(t *testing.T) {
	timers, _ := newTestTimer()
	checker := &CheckTimerTool{Timers: timers}

	result := checker.Execute(context.Background(), map[string]interface{}{"timer_id": "missing"})
	assert.False(t, result.Success)
	assert.Equal(t, "Timer not found", result.Error)

	set := timers.Execute(context.Background(), map[string]interface{}{"duration": 1, "unit": "hour"})
	result = checker.Execute(context.Background(), map[string]interface{}{"timer_id": set.Data["timer_id"]})
	require.True(t, result.Success)
	assert.Equal(t, "running", result.Data["status"])
	assert.Equal(t, "60:00", result.Data["remaining_formatted"])
}
