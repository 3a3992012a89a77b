// Package tracing records sign-in attempts and screen navigation for a
// session of the gsignin CLI as local JSON files.
package tracing

import (
	"time"
)

// Tracer records events for the current session
type Tracer interface {
	// TrackEvent records a structured event with automatic timestamp and session context
	TrackEvent(event Event) error

	// Flush ensures all pending events are persisted
	Flush() error

	// Close flushes and releases the tracer
	Close() error
}

// Event is anything a Tracer can record
type Event interface {
	EventType() string
	Timestamp() time.Time

	// Validate ensures the event data is complete
	Validate() error

	// Sanitize returns a copy with sensitive values removed
	Sanitize() Event
}

// SessionInfo contains metadata about the current session
type SessionInfo struct {
	ID        string    `json:"session_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
	UserAgent string    `json:"user_agent"`
	Platform  string    `json:"platform"`
	Version   string    `json:"version"`
}

// EventBatch is the on-disk shape of one flush
type EventBatch struct {
	Session SessionInfo `json:"session"`
	Events  []Event     `json:"events"`
}

// Config holds configuration for the tracing system
type Config struct {
	Enabled       bool
	Dir           string
	MaxSessions   int
	MaxBufferSize int
}

// DefaultConfig traces into dir, keeping the last ten session files
func DefaultConfig(dir string) Config {
	return Config{
		Enabled:       true,
		Dir:           dir,
		MaxSessions:   10,
		MaxBufferSize: 100,
	}
}

// NoOpTracer discards all events
type NoOpTracer struct{}

func (n *NoOpTracer) TrackEvent(event Event) error { return nil }
func (n *NoOpTracer) Flush() error                 { return nil }
func (n *NoOpTracer) Close() error                 { return nil }

// NewNoOpTracer creates a tracer that discards all events
func NewNoOpTracer() Tracer {
	return &NoOpTracer{}
}
