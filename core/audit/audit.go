package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "personaos/core/types"
)

// AuditLog represents a single tool execution event
type AuditLog struct {
	Timestamp time.Time              `json:"timestamp"`
	ToolName  string                 `json:"tool_name"`
	Category  ToolCategory           `json:"category,omitempty"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
	Success   bool                   `json:"success"`
	Error     string                 `json:"error,omitempty"`
	Duration  time.Duration          `json:"duration_ms"`
	UserQuery string                 `json:"user_query,omitempty"`
}

// Logger appends audit entries as JSON lines
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// NewLogger creates an audit logger writing to path
func NewLogger(path string, enabled bool) *Logger {
	return &Logger{path: path, enabled: enabled}
}

// Path returns the audit file location
func (l *Logger) Path() string {
	return l.path
}

// LogExecution logs a tool execution to the audit log
func (l *Logger) LogExecution(log AuditLog) error {
	if l == nil || !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log: %w", err)
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}

// ReadAll reads every audit entry; malformed lines are skipped
func (l *Logger) ReadAll() ([]AuditLog, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []AuditLog{}, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	defer file.Close()

	logs := []AuditLog{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry AuditLog
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		logs = append(logs, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan audit log: %w", err)
	}

	return logs, nil
}

// Recent returns the n most recent audit entries
func (l *Logger) Recent(n int) ([]AuditLog, error) {
	logs, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(logs) <= n {
		return logs, nil
	}
	return logs[len(logs)-n:], nil
}
