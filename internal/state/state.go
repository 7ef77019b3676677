// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-starfield/internal/export"
	"github.com/litescript/ls-starfield/internal/starfield"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventBuilt       EventType = "BUILT"
	EventRebuilt     EventType = "REBUILT"
	EventBuildFailed EventType = "BUILD_FAILED"
	EventRecovered   EventType = "RECOVERED"
)

// Event represents a change in the current starfield mesh.
type Event struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	MeshName  string        `json:"mesh_name,omitempty"`
	OldMesh   string        `json:"old_mesh,omitempty"`
	Stars     int           `json:"stars,omitempty"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// HistoryEntry is one build attempt.
type HistoryEntry struct {
	Timestamp time.Time
	Duration  time.Duration
	Stars     int
	Failed    bool
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current       *starfield.Mesh
	summary       export.Summary
	lastBuild     time.Time
	lastError     error
	buildDuration time.Duration
	builds        int

	// Build history
	history       []HistoryEntry
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen int
	MaxEvents     int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 60,
		MaxEvents:     50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxHistoryLen := cfg.MaxHistoryLen
	if maxHistoryLen <= 0 {
		maxHistoryLen = 60
	}
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen: maxHistoryLen,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
	}
}

// Update records the result of a build. A failed build keeps the previous
// mesh, matching a starfield whose rebuild failed.
func (m *Manager) Update(mesh *starfield.Mesh, buildDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	hadError := m.lastError != nil

	m.lastBuild = now
	m.lastError = err
	m.buildDuration = buildDuration
	m.builds++

	entry := HistoryEntry{Timestamp: now, Duration: buildDuration, Failed: err != nil || mesh == nil}
	if mesh != nil && err == nil {
		entry.Stars = mesh.QuadCount()
	}
	m.history = append(m.history, entry)
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	if err != nil || mesh == nil {
		e := Event{Type: EventBuildFailed, Timestamp: now, Duration: buildDuration}
		if err != nil {
			e.Error = err.Error()
		}
		if m.current != nil {
			e.OldMesh = m.current.Name
		}
		m.addEvent(e)
		return
	}

	m.detectEvents(mesh, now, buildDuration, hadError)

	m.current = mesh
	m.summary = export.Summarize(mesh)
}

// detectEvents compares the new mesh with the current one.
func (m *Manager) detectEvents(mesh *starfield.Mesh, now time.Time, d time.Duration, hadError bool) {
	e := Event{
		Timestamp: now,
		MeshName:  mesh.Name,
		Stars:     mesh.QuadCount(),
		Duration:  d,
	}

	switch {
	case hadError:
		e.Type = EventRecovered
		if m.current != nil {
			e.OldMesh = m.current.Name
		}
	case m.current == nil:
		e.Type = EventBuilt
	case m.current.ID != mesh.ID:
		e.Type = EventRebuilt
		e.OldMesh = m.current.Name
	default:
		return
	}
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state. The Mesh
// is shared and must not be modified.
type Snapshot struct {
	Mesh          *starfield.Mesh
	Summary       export.Summary
	LastBuild     time.Time
	LastError     error
	BuildDuration time.Duration
	Builds        int
	History       []HistoryEntry
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]HistoryEntry, len(m.history))
	copy(hist, m.history)

	return Snapshot{
		Mesh:          m.current,
		Summary:       m.summary,
		LastBuild:     m.lastBuild,
		LastError:     m.lastError,
		BuildDuration: m.buildDuration,
		Builds:        m.builds,
		History:       hist,
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// MeanBuildDuration averages the successful builds in history.
func (m *Manager) MeanBuildDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total time.Duration
	n := 0
	for _, h := range m.history {
		if h.Failed {
			continue
		}
		total += h.Duration
		n++
	}
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}

// HasData returns true if at least one build succeeded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
