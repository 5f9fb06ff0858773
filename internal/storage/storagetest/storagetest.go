// Package storagetest holds behavior tests shared by every storage.Provider.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitpulse/internal/models"
	"github.com/julianstephens/habitpulse/internal/storage"
)

// Factory returns a fresh, initialized store. The store is closed by the
// caller's cleanup.
type Factory func(t *testing.T) storage.Provider

// NewHabit builds a valid habit for tests.
func NewHabit(name string) models.Habit {
	return models.Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Emoji:     "💧",
		Kind:      models.KindReinforcing,
		Color:     models.ColorEmerald,
		CreatedAt: time.UnixMilli(time.Now().UnixMilli()),
		Unit:      "glasses",
	}
}

// NewLog builds a log for habitID at the given millisecond timestamp.
func NewLog(habitID string, ts int64, value float64) models.HabitLog {
	return models.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Timestamp: ts,
		Value:     value,
	}
}

// Run exercises the Provider contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("PutHabitLastWriteWins", func(t *testing.T) { testPutHabitLastWriteWins(t, newStore(t)) })
	t.Run("GetAllHabitsIncludesArchived", func(t *testing.T) { testGetAllHabitsIncludesArchived(t, newStore(t)) })
	t.Run("HabitRoundTrip", func(t *testing.T) { testHabitRoundTrip(t, newStore(t)) })
	t.Run("AddLogNotIdempotent", func(t *testing.T) { testAddLogNotIdempotent(t, newStore(t)) })
	t.Run("AddLogDuplicateID", func(t *testing.T) { testAddLogDuplicateID(t, newStore(t)) })
	t.Run("AddLogUnknownHabit", func(t *testing.T) { testAddLogUnknownHabit(t, newStore(t)) })
	t.Run("GetLogsForHabitOrdering", func(t *testing.T) { testGetLogsForHabitOrdering(t, newStore(t)) })
	t.Run("DeleteHabitCascades", func(t *testing.T) { testDeleteHabitCascades(t, newStore(t)) })
	t.Run("DeleteUnknownHabitIsNoop", func(t *testing.T) { testDeleteUnknownHabitIsNoop(t, newStore(t)) })
}

func mustPut(t *testing.T, s storage.Provider, h models.Habit) {
	t.Helper()
	if err := s.PutHabit(h); err != nil {
		t.Fatalf("PutHabit(%s) failed: %v", h.Name, err)
	}
}

func mustAddLog(t *testing.T, s storage.Provider, l models.HabitLog) {
	t.Helper()
	if err := s.AddLog(l); err != nil {
		t.Fatalf("AddLog(%s) failed: %v", l.ID, err)
	}
}

func testPutHabitLastWriteWins(t *testing.T, s storage.Provider) {
	h := NewHabit("Water")
	mustPut(t, s, h)

	h.Name = "More water"
	h.Emoji = "🚰"
	h.Unit = "litres"
	mustPut(t, s, h)

	habits, err := s.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}

	count := 0
	for _, got := range habits {
		if got.ID != h.ID {
			continue
		}
		count++
		if got.Name != "More water" || got.Emoji != "🚰" || got.Unit != "litres" {
			t.Errorf("expected last written value, got %+v", got)
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one record with id %s, got %d", h.ID, count)
	}
}

func testGetAllHabitsIncludesArchived(t *testing.T, s storage.Provider) {
	active := NewHabit("Read")
	archived := NewHabit("Smoke")
	archived.Kind = models.KindReducing
	archived.Archived = true
	mustPut(t, s, active)
	mustPut(t, s, archived)

	habits, err := s.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
	found := false
	for _, h := range habits {
		if h.ID == archived.ID {
			found = h.Archived
		}
	}
	if !found {
		t.Error("archived habit missing or not flagged archived")
	}
}

func testHabitRoundTrip(t *testing.T, s storage.Provider) {
	h := NewHabit("Meditate")
	h.Kind = models.KindReducing
	h.Color = models.ColorViolet
	h.Unit = ""
	mustPut(t, s, h)

	habits, err := s.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
	got := habits[0]
	if got.ID != h.ID || got.Name != h.Name || got.Emoji != h.Emoji || got.Kind != h.Kind ||
		got.Color != h.Color || got.Unit != h.Unit || got.Archived != h.Archived {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, h)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, h.CreatedAt)
	}
}

func testAddLogNotIdempotent(t *testing.T, s storage.Provider) {
	h := NewHabit("Water")
	mustPut(t, s, h)

	ts := time.Now().UnixMilli()
	mustAddLog(t, s, NewLog(h.ID, ts, 1))
	mustAddLog(t, s, NewLog(h.ID, ts, 1))

	logs, err := s.GetAllLogs()
	if err != nil {
		t.Fatalf("GetAllLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("expected 2 distinct logs, got %d", len(logs))
	}
}

func testAddLogDuplicateID(t *testing.T, s storage.Provider) {
	h := NewHabit("Water")
	mustPut(t, s, h)

	l := NewLog(h.ID, time.Now().UnixMilli(), 1)
	mustAddLog(t, s, l)

	dup := l
	dup.Value = 99
	err := s.AddLog(dup)
	if !errors.Is(err, storage.ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}

	logs, err := s.GetLogsForHabit(h.ID)
	if err != nil {
		t.Fatalf("GetLogsForHabit failed: %v", err)
	}
	if len(logs) != 1 || logs[0].Value != 1 {
		t.Errorf("original log was replaced: %+v", logs)
	}
}

func testAddLogUnknownHabit(t *testing.T, s storage.Provider) {
	err := s.AddLog(NewLog("no-such-habit", time.Now().UnixMilli(), 1))
	if !errors.Is(err, storage.ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}
	logs, err := s.GetAllLogs()
	if err != nil {
		t.Fatalf("GetAllLogs failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("expected no logs, got %d", len(logs))
	}
}

func testGetLogsForHabitOrdering(t *testing.T, s storage.Provider) {
	a := NewHabit("A")
	b := NewHabit("B")
	mustPut(t, s, a)
	mustPut(t, s, b)

	base := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC).UnixMilli()
	mustAddLog(t, s, NewLog(a.ID, base+2000, 1))
	mustAddLog(t, s, NewLog(a.ID, base, 2))
	mustAddLog(t, s, NewLog(b.ID, base+5000, 3))
	mustAddLog(t, s, NewLog(a.ID, base+1000, 4.5))

	logs, err := s.GetLogsForHabit(a.ID)
	if err != nil {
		t.Fatalf("GetLogsForHabit failed: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs for A, got %d", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i-1].Timestamp < logs[i].Timestamp {
			t.Errorf("logs not sorted descending: %d before %d", logs[i-1].Timestamp, logs[i].Timestamp)
		}
	}
	if logs[1].Value != 4.5 {
		t.Errorf("expected fractional value to survive, got %v", logs[1].Value)
	}
	for _, l := range logs {
		if l.HabitID != a.ID {
			t.Errorf("log %s belongs to %s", l.ID, l.HabitID)
		}
	}
}

func testDeleteHabitCascades(t *testing.T, s storage.Provider) {
	h := NewHabit("Water")
	keep := NewHabit("Read")
	mustPut(t, s, h)
	mustPut(t, s, keep)

	now := time.Now().UnixMilli()
	for i := 0; i < 5; i++ {
		mustAddLog(t, s, NewLog(h.ID, now+int64(i), 1))
	}
	mustAddLog(t, s, NewLog(keep.ID, now, 1))

	if err := s.DeleteHabit(h.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	habits, err := s.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	for _, got := range habits {
		if got.ID == h.ID {
			t.Error("deleted habit still present")
		}
	}
	if len(habits) != 1 {
		t.Errorf("expected 1 remaining habit, got %d", len(habits))
	}

	logs, err := s.GetAllLogs()
	if err != nil {
		t.Fatalf("GetAllLogs failed: %v", err)
	}
	for _, l := range logs {
		if l.HabitID == h.ID {
			t.Errorf("orphaned log %s survived delete", l.ID)
		}
	}
	if len(logs) != 1 {
		t.Errorf("expected the other habit's log to remain, got %d logs", len(logs))
	}
}

func testDeleteUnknownHabitIsNoop(t *testing.T, s storage.Provider) {
	h := NewHabit("Water")
	mustPut(t, s, h)

	if err := s.DeleteHabit("does-not-exist"); err != nil {
		t.Fatalf("DeleteHabit(unknown) returned error: %v", err)
	}

	habits, err := s.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("expected habit to survive, got %d habits", len(habits))
	}
}

// AssertIntact checks that a habit and exactly n of its logs are still stored.
func AssertIntact(t *testing.T, s storage.Provider, habitID string, n int) {
	t.Helper()

	habits, err := s.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	found := false
	for _, h := range habits {
		if h.ID == habitID {
			found = true
		}
	}
	if !found {
		t.Error("habit removed by interrupted delete")
	}

	logs, err := s.GetLogsForHabit(habitID)
	if err != nil {
		t.Fatalf("GetLogsForHabit failed: %v", err)
	}
	if len(logs) != n {
		t.Errorf("expected %d logs after interrupted delete, got %d", n, len(logs))
	}
}
