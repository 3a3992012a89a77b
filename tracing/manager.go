package tracing

import (
	"sync"
	"time"
)

// Manager is the tracing facade used by the TUI. A nil *Manager is valid and
// records nothing.
type Manager struct {
	tracer    Tracer
	sessionID string
	now       func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewManager wraps tracer. sessionID tags every event.
func NewManager(tracer Tracer, sessionID string) *Manager {
	return &Manager{
		tracer:    tracer,
		sessionID: sessionID,
		now:       time.Now,
	}
}

// NewLocalManager creates a manager backed by a LocalTracer. When tracing is
// disabled or the directory cannot be created it falls back to a no-op tracer.
func NewLocalManager(config Config, version string) (*Manager, error) {
	if !config.Enabled {
		return NewManager(NewNoOpTracer(), ""), nil
	}
	local, err := NewLocalTracer(config, version)
	if err != nil {
		return NewManager(NewNoOpTracer(), ""), err
	}
	m := NewManager(local, local.SessionID())
	_ = m.TrackNavigation("", "session_start", "application_launch")
	return m, nil
}

// SessionID returns the session id events are tagged with
func (m *Manager) SessionID() string {
	if m == nil {
		return ""
	}
	return m.sessionID
}

// TrackNavigation records a screen transition
func (m *Manager) TrackNavigation(from, to, trigger string) error {
	return m.track(NewNavigationEvent(m.SessionID(), from, to, trigger))
}

// TrackError records an error raised by component
func (m *Manager) TrackError(err error, component string) error {
	if err == nil {
		return nil
	}
	return m.track(NewErrorEvent(m.SessionID(), err.Error(), component))
}

// StartSignIn begins timing a sign-in attempt
func (m *Manager) StartSignIn() *SignInTracker {
	now := time.Now
	if m != nil {
		now = m.now
	}
	return &SignInTracker{manager: m, startTime: now()}
}

// Close records the end of the session and closes the tracer
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	_ = m.tracer.TrackEvent(NewNavigationEvent(m.sessionID, "session_active", "session_end", "application_exit"))
	return m.tracer.Close()
}

func (m *Manager) track(event Event) error {
	if m == nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}
	return m.tracer.TrackEvent(event)
}

// SignInTracker times one sign-in attempt
type SignInTracker struct {
	manager   *Manager
	startTime time.Time
}

// Complete records the attempt's result. err is the acquisition error, if any.
func (t *SignInTracker) Complete(result string, err error) error {
	if t.manager == nil {
		return nil
	}
	event := NewSignInEvent(t.manager.sessionID, result, t.manager.now().Sub(t.startTime))
	if err != nil {
		event.Error = err.Error()
	}
	return t.manager.track(event)
}
