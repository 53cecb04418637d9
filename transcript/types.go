// Package transcript keeps a SQLite history of processed exchanges.
package transcript

import "time"

// Entry is one processed user input and the assistant's reply
type Entry struct {
	ID          int64                  `json:"id"`
	SessionID   string                 `json:"session_id"`
	CreatedAt   time.Time              `json:"created_at"`
	UserInput   string                 `json:"user_input"`
	Intent      string                 `json:"intent"`
	Action      string                 `json:"action"`
	Tool        string                 `json:"tool,omitempty"`
	SafetyLevel string                 `json:"safety_level"`
	Confidence  float64                `json:"confidence"`
	Response    string                 `json:"response"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Query filters entries returned by Search
type Query struct {
	Text      string // substring of the input or the response
	Action    string
	SessionID string
	Limit     int // defaults to 10
}
