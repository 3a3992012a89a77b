package tracing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocalTracer buffers events in memory and writes them to a JSON file per
// flush under Config.Dir.
type LocalTracer struct {
	config  Config
	session SessionInfo

	mu     sync.Mutex
	buffer []Event
	closed bool
}

// NewLocalTracer creates a new local file tracer with the given configuration
func NewLocalTracer(config Config, version string) (*LocalTracer, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("tracing directory is not set")
	}
	if err := os.MkdirAll(config.Dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create traces directory %s: %w", config.Dir, err)
	}
	if config.MaxBufferSize <= 0 {
		config.MaxBufferSize = 1
	}

	return &LocalTracer{
		config: config,
		session: SessionInfo{
			ID:        uuid.NewString(),
			StartTime: time.Now(),
			UserAgent: "gsignin-cli/" + version,
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			Version:   version,
		},
		buffer: make([]Event, 0, config.MaxBufferSize),
	}, nil
}

// SessionID returns the uuid of this tracer's session
func (l *LocalTracer) SessionID() string {
	return l.session.ID
}

// TrackEvent validates, sanitizes and buffers event
func (l *LocalTracer) TrackEvent(event Event) error {
	if !l.config.Enabled {
		return nil
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.buffer = append(l.buffer, event.Sanitize())
	if len(l.buffer) >= l.config.MaxBufferSize {
		return l.flushLocked()
	}
	return nil
}

// Flush ensures all pending events are persisted
func (l *LocalTracer) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flushLocked()
}

// Close flushes what is left and prunes old session files
func (l *LocalTracer) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.session.EndTime = time.Now()
	err := l.flushLocked()
	l.closed = true
	l.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to flush during close: %w", err)
	}
	return l.cleanupOldSessions()
}

// flushLocked writes the buffer to disk; callers hold l.mu
func (l *LocalTracer) flushLocked() error {
	if len(l.buffer) == 0 {
		return nil
	}

	session := l.session
	if session.EndTime.IsZero() {
		session.EndTime = time.Now()
	}
	batch := EventBatch{
		Session: session,
		Events:  append([]Event(nil), l.buffer...),
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	name := fmt.Sprintf("session_%s_%d.json", l.session.ID, time.Now().UnixNano())
	path := filepath.Join(l.config.Dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write events to %s: %w", path, err)
	}

	l.buffer = l.buffer[:0]
	return nil
}

// cleanupOldSessions keeps the newest MaxSessions trace files
func (l *LocalTracer) cleanupOldSessions() error {
	if l.config.MaxSessions <= 0 {
		return nil
	}

	entries, err := os.ReadDir(l.config.Dir)
	if err != nil {
		return fmt.Errorf("failed to read traces directory: %w", err)
	}

	type traceFile struct {
		name    string
		modTime time.Time
	}
	var files []traceFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, traceFile{name: entry.Name(), modTime: info.ModTime()})
	}

	if len(files) <= l.config.MaxSessions {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})
	for _, f := range files[:len(files)-l.config.MaxSessions] {
		_ = os.Remove(filepath.Join(l.config.Dir, f.name))
	}
	return nil
}
