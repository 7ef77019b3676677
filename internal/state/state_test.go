package state

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-starfield/internal/geom"
	"github.com/litescript/ls-starfield/internal/starfield"
)

func testMesh(stars int) *starfield.Mesh {
	id := uuid.New()
	return &starfield.Mesh{
		Name:     fmt.Sprintf("StarfieldMesh_(%s)", id),
		ID:       id,
		Vertices: make([]geom.Vec3, stars*4),
		Colors:   make([]geom.Vec4, stars*4),
		Indices:  make([]uint32, stars*6),
	}
}

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.HasData() {
		t.Error("HasData should be false initially")
	}
	if m.MeanBuildDuration() != 0 {
		t.Errorf("MeanBuildDuration = %v, want 0", m.MeanBuildDuration())
	}
}

func TestManager_Update(t *testing.T) {
	m := NewManager(DefaultConfig())
	mesh := testMesh(3)

	m.Update(mesh, 100*time.Millisecond, nil)

	if !m.HasData() {
		t.Error("HasData should be true after Update")
	}

	snap := m.Snapshot()
	if snap.Mesh != mesh {
		t.Error("Snapshot Mesh doesn't match")
	}
	if snap.BuildDuration != 100*time.Millisecond {
		t.Errorf("BuildDuration = %v, want 100ms", snap.BuildDuration)
	}
	if snap.LastError != nil {
		t.Errorf("LastError = %v, want nil", snap.LastError)
	}
	if snap.Summary.Stars != 3 {
		t.Errorf("Summary.Stars = %d, want 3", snap.Summary.Stars)
	}
	if snap.Summary.Name != mesh.Name {
		t.Errorf("Summary.Name = %q, want %q", snap.Summary.Name, mesh.Name)
	}
	if snap.Builds != 1 {
		t.Errorf("Builds = %d, want 1", snap.Builds)
	}
}

func TestManager_UpdateWithError(t *testing.T) {
	m := NewManager(DefaultConfig())

	testErr := errors.New("catalog read error")
	m.Update(nil, 50*time.Millisecond, testErr)

	snap := m.Snapshot()
	if snap.Mesh != nil {
		t.Error("Mesh should be nil on error")
	}
	if snap.LastError != testErr {
		t.Errorf("LastError = %v, want %v", snap.LastError, testErr)
	}
	if m.HasData() {
		t.Error("HasData should be false after failed build")
	}
}

func TestManager_FailedRebuildKeepsMesh(t *testing.T) {
	m := NewManager(DefaultConfig())
	mesh := testMesh(2)

	m.Update(mesh, 0, nil)
	m.Update(nil, 0, errors.New("short buffer"))

	snap := m.Snapshot()
	if snap.Mesh != mesh {
		t.Error("failed rebuild replaced the current mesh")
	}
	if snap.LastError == nil {
		t.Error("LastError should be set")
	}
}

func TestManager_HistoryBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistoryLen = 3
	m := NewManager(cfg)

	for i := 0; i < 5; i++ {
		m.Update(testMesh(1), 0, nil)
	}

	if got := len(m.Snapshot().History); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestManager_ZeroConfigUsesDefaults(t *testing.T) {
	m := NewManager(Config{})

	for i := 0; i < 70; i++ {
		m.Update(testMesh(1), time.Millisecond, nil)
	}

	snap := m.Snapshot()
	if got := len(snap.History); got != 60 {
		t.Errorf("history length = %d, want 60", got)
	}
	if got := m.MeanBuildDuration(); got != time.Millisecond {
		t.Errorf("MeanBuildDuration = %v, want 1ms", got)
	}
}

func TestManager_MeanBuildDuration(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.Update(testMesh(1), 10*time.Millisecond, nil)
	m.Update(nil, time.Hour, errors.New("failed"))
	m.Update(testMesh(1), 30*time.Millisecond, nil)

	if got := m.MeanBuildDuration(); got != 20*time.Millisecond {
		t.Errorf("MeanBuildDuration = %v, want 20ms", got)
	}
}

func TestManager_Snapshot_IsCopy(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Update(testMesh(1), time.Millisecond, nil)

	snap := m.Snapshot()
	snap.History[0].Stars = 999

	if m.Snapshot().History[0].Stars == 999 {
		t.Error("Snapshot modification affected manager state")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	iterations := 100

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if i%7 == 0 {
				m.Update(nil, 0, errors.New("failed"))
				continue
			}
			m.Update(testMesh(1), time.Duration(i)*time.Millisecond, nil)
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.HasData()
				_ = m.RecentEvents(5)
				_ = m.MeanBuildDuration()
			}
		}()
	}

	wg.Wait()
}

func TestManager_EventDetection_Built(t *testing.T) {
	m := NewManager(DefaultConfig())
	mesh := testMesh(4)

	m.Update(mesh, time.Millisecond, nil)

	events := m.RecentEvents(10)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventBuilt {
		t.Errorf("event type = %q, want BUILT", events[0].Type)
	}
	if events[0].MeshName != mesh.Name {
		t.Errorf("mesh name = %q, want %q", events[0].MeshName, mesh.Name)
	}
	if events[0].Stars != 4 {
		t.Errorf("stars = %d, want 4", events[0].Stars)
	}
}

func TestManager_EventDetection_Rebuilt(t *testing.T) {
	m := NewManager(DefaultConfig())
	first, second := testMesh(1), testMesh(1)

	m.Update(first, 0, nil)
	m.Update(second, 0, nil)

	events := m.RecentEvents(10)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].Type != EventRebuilt {
		t.Errorf("event type = %q, want REBUILT", events[1].Type)
	}
	if events[1].OldMesh != first.Name {
		t.Errorf("old mesh = %q, want %q", events[1].OldMesh, first.Name)
	}
	if events[1].MeshName != second.Name {
		t.Errorf("mesh name = %q, want %q", events[1].MeshName, second.Name)
	}
}

func TestManager_EventDetection_SameMeshIsQuiet(t *testing.T) {
	m := NewManager(DefaultConfig())
	mesh := testMesh(1)

	m.Update(mesh, 0, nil)
	m.Update(mesh, 0, nil)

	if got := len(m.RecentEvents(10)); got != 1 {
		t.Errorf("events = %d, want 1", got)
	}
}

func TestManager_EventDetection_FailedAndRecovered(t *testing.T) {
	m := NewManager(DefaultConfig())
	mesh := testMesh(1)

	m.Update(mesh, 0, nil)
	m.Update(nil, 0, errors.New("short buffer"))
	m.Update(testMesh(1), 0, nil)

	events := m.RecentEvents(10)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	failed := events[1]
	if failed.Type != EventBuildFailed {
		t.Errorf("event type = %q, want BUILD_FAILED", failed.Type)
	}
	if failed.Error != "short buffer" {
		t.Errorf("error = %q, want short buffer", failed.Error)
	}
	if failed.OldMesh != mesh.Name {
		t.Errorf("old mesh = %q, want %q", failed.OldMesh, mesh.Name)
	}

	if events[2].Type != EventRecovered {
		t.Errorf("event type = %q, want RECOVERED", events[2].Type)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 5
	m := NewManager(cfg)

	for i := 0; i < 10; i++ {
		m.Update(testMesh(1), time.Duration(i), nil)
	}

	events := m.RecentEvents(100)
	if len(events) != 5 {
		t.Errorf("events count = %d, want 5 (max)", len(events))
	}

	// Oldest surviving event is the sixth build.
	if events[0].Duration != 5 {
		t.Errorf("first event duration = %v, want 5ns", events[0].Duration)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			t.Errorf("events not in chronological order at index %d", i)
		}
	}
}

func TestManager_Snapshot_IncludesEvents(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Update(testMesh(1), 0, nil)

	snap := m.Snapshot()
	if len(snap.Events) == 0 {
		t.Fatal("Snapshot should include events")
	}
	if snap.Events[0].Type != EventBuilt {
		t.Errorf("event type = %q, want BUILT", snap.Events[0].Type)
	}
}
