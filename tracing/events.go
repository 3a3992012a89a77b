package tracing

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// BaseEvent carries the fields shared by every event
type BaseEvent struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

// EventType returns the type identifier for this event
func (b BaseEvent) EventType() string {
	return b.Type
}

// Timestamp returns when this event occurred
func (b BaseEvent) Timestamp() time.Time {
	return b.CreatedAt
}

// Duration serializes a time.Duration with readable units
type Duration time.Duration

// MarshalJSON implements json.Marshaler interface
func (d Duration) MarshalJSON() ([]byte, error) {
	duration := time.Duration(d)
	return json.Marshal(map[string]any{
		"milliseconds": duration.Milliseconds(),
		"readable":     duration.String(),
	})
}

// NavigationEvent records a screen transition
type NavigationEvent struct {
	BaseEvent
	FromState string `json:"from_state"`
	ToState   string `json:"to_state"`
	Trigger   string `json:"trigger"`
}

// NewNavigationEvent creates a new navigation event
func NewNavigationEvent(sessionID, fromState, toState, trigger string) *NavigationEvent {
	return &NavigationEvent{
		BaseEvent: BaseEvent{
			Type:      "navigation",
			CreatedAt: time.Now(),
			SessionID: sessionID,
		},
		FromState: fromState,
		ToState:   toState,
		Trigger:   trigger,
	}
}

// Validate ensures the event data is complete and valid
func (n *NavigationEvent) Validate() error {
	if n.ToState == "" {
		return errors.New("to_state is required")
	}
	if n.Trigger == "" {
		return errors.New("trigger is required")
	}
	return nil
}

// Sanitize returns the event unchanged; navigation carries no user data
func (n *NavigationEvent) Sanitize() Event {
	sanitized := *n
	return &sanitized
}

// SignInEvent records one sign-in attempt and the result it produced
type SignInEvent struct {
	BaseEvent
	Result   string            `json:"result"`
	Duration Duration          `json:"duration"`
	Error    string            `json:"error,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewSignInEvent creates a new sign-in event
func NewSignInEvent(sessionID, result string, duration time.Duration) *SignInEvent {
	return &SignInEvent{
		BaseEvent: BaseEvent{
			Type:      "sign_in",
			CreatedAt: time.Now(),
			SessionID: sessionID,
		},
		Result:   result,
		Duration: Duration(duration),
		Metadata: make(map[string]string),
	}
}

// Validate ensures the event data is complete and valid
func (s *SignInEvent) Validate() error {
	if s.Result == "" {
		return errors.New("result is required")
	}
	if time.Duration(s.Duration) < 0 {
		return errors.New("duration cannot be negative")
	}
	return nil
}

// Sanitize removes tokens and account identifiers
func (s *SignInEvent) Sanitize() Event {
	sanitized := *s
	sanitized.Error = sanitizeErrorMessage(s.Error)
	sanitized.Metadata = filterSensitive(s.Metadata)
	return &sanitized
}

// ErrorEvent records a failure outside a sign-in attempt, such as sign-out
type ErrorEvent struct {
	BaseEvent
	Error     string            `json:"error"`
	Component string            `json:"component,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

// NewErrorEvent creates a new error event
func NewErrorEvent(sessionID, errorMsg, component string) *ErrorEvent {
	return &ErrorEvent{
		BaseEvent: BaseEvent{
			Type:      "error",
			CreatedAt: time.Now(),
			SessionID: sessionID,
		},
		Error:     errorMsg,
		Component: component,
		Context:   make(map[string]string),
	}
}

// Validate ensures the event data is complete and valid
func (e *ErrorEvent) Validate() error {
	if e.Error == "" {
		return errors.New("error message is required")
	}
	return nil
}

// Sanitize removes tokens and account identifiers
func (e *ErrorEvent) Sanitize() Event {
	sanitized := *e
	sanitized.Error = sanitizeErrorMessage(e.Error)
	sanitized.Context = filterSensitive(e.Context)
	return &sanitized
}

var sensitiveKeys = []string{
	"password", "token", "secret", "key", "auth", "credential",
	"code", "nonce", "email", "hint", "subject",
}

// isSensitiveKey checks if a key names sensitive information
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(key, sensitive) {
			return true
		}
	}
	return false
}

func filterSensitive(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		if !isSensitiveKey(k) {
			out[k] = v
		}
	}
	return out
}

// sanitizeErrorMessage redacts messages that echo query parameters or an email
func sanitizeErrorMessage(msg string) string {
	lower := strings.ToLower(msg)
	for _, marker := range []string{"token=", "code=", "state=", "nonce=", "secret=", "@"} {
		if strings.Contains(lower, marker) {
			return "Error occurred (details redacted)"
		}
	}
	return msg
}
