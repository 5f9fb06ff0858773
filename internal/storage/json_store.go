package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/models"
)

// Document is the on-disk layout of a JSONStore
type Document struct {
	Version int                        `json:"version"`
	Habits  map[string]models.Habit    `json:"habits"`
	Logs    map[string]models.HabitLog `json:"logs"`
}

func newDocument() *Document {
	return &Document{
		Version: constants.SchemaVersion,
		Habits:  make(map[string]models.Habit),
		Logs:    make(map[string]models.HabitLog),
	}
}

func (d *Document) clone() *Document {
	c := &Document{
		Version: d.Version,
		Habits:  make(map[string]models.Habit, len(d.Habits)),
		Logs:    make(map[string]models.HabitLog, len(d.Logs)),
	}
	for k, v := range d.Habits {
		c.Habits[k] = v
	}
	for k, v := range d.Logs {
		c.Logs[k] = v
	}
	return c
}

// JSONStore keeps the whole store in memory and, when it has a path, writes
// the full document to disk after every mutation. With an empty path it is a
// purely in-memory store.
//
// Mutations are applied to a copy that replaces the live document only once
// it has been written, so a failed write leaves the previous state in place.
type JSONStore struct {
	mu    sync.RWMutex
	path  string
	store *Document

	// beforeCommit runs after a mutation is staged and before it is saved
	beforeCommit func(stage string) error
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

// NewMemoryStore returns a loaded, ephemeral store.
func NewMemoryStore() *JSONStore {
	return &JSONStore{store: newDocument()}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		if s.store == nil {
			s.store = newDocument()
		}
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// An existing file is kept; Init only fills in what is missing
	if _, err := os.Stat(s.path); err == nil {
		return s.loadLocked()
	}

	doc := newDocument()
	if err := s.write(doc); err != nil {
		return err
	}
	s.store = doc
	return nil
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return nil
	}
	if s.path == "" {
		s.store = newDocument()
		return nil
	}
	return s.loadLocked()
}

func (s *JSONStore) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > constants.SchemaVersion {
		return fmt.Errorf("storage version %d is newer than supported version %d - please upgrade the application", doc.Version, constants.SchemaVersion)
	}

	if doc.Habits == nil {
		doc.Habits = make(map[string]models.Habit)
	}
	if doc.Logs == nil {
		doc.Logs = make(map[string]models.HabitLog)
	}
	doc.Version = constants.SchemaVersion

	s.store = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) write(doc *Document) error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write next to the target and rename so a crash never leaves half a file
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

// mutate stages fn on a copy of the document and commits it.
func (s *JSONStore) mutate(fn func(doc *Document) error, stages ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return ErrNotLoaded
	}

	next := s.store.clone()
	if err := fn(next); err != nil {
		return err
	}
	if s.beforeCommit != nil {
		for _, stage := range stages {
			if err := s.beforeCommit(stage); err != nil {
				return err
			}
		}
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.store = next
	return nil
}

func (s *JSONStore) PutHabit(habit models.Habit) error {
	return s.mutate(func(doc *Document) error {
		doc.Habits[habit.ID] = habit
		return nil
	})
}

func (s *JSONStore) GetAllHabits() ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store == nil {
		return nil, ErrNotLoaded
	}

	habits := make([]models.Habit, 0, len(s.store.Habits))
	for _, h := range s.store.Habits {
		habits = append(habits, h)
	}
	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *JSONStore) DeleteHabit(id string) error {
	return s.mutate(func(doc *Document) error {
		for logID, l := range doc.Logs {
			if l.HabitID == id {
				delete(doc.Logs, logID)
			}
		}
		delete(doc.Habits, id)
		return nil
	}, "logs_deleted")
}

func (s *JSONStore) AddLog(log models.HabitLog) error {
	return s.mutate(func(doc *Document) error {
		if _, exists := doc.Logs[log.ID]; exists {
			return fmt.Errorf("failed to add log %s: %w", log.ID, ErrConstraint)
		}
		if _, ok := doc.Habits[log.HabitID]; !ok {
			return fmt.Errorf("failed to add log for habit %s: %w", log.HabitID, ErrHabitNotFound)
		}
		doc.Logs[log.ID] = log
		return nil
	})
}

func (s *JSONStore) GetLogsForHabit(habitID string) ([]models.HabitLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store == nil {
		return nil, ErrNotLoaded
	}

	logs := make([]models.HabitLog, 0)
	for _, l := range s.store.Logs {
		if l.HabitID == habitID {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].Timestamp == logs[j].Timestamp {
			return logs[i].ID < logs[j].ID
		}
		return logs[i].Timestamp > logs[j].Timestamp
	})
	return logs, nil
}

func (s *JSONStore) GetAllLogs() ([]models.HabitLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store == nil {
		return nil, ErrNotLoaded
	}

	logs := make([]models.HabitLog, 0, len(s.store.Logs))
	for _, l := range s.store.Logs {
		logs = append(logs, l)
	}
	return logs, nil
}

func (s *JSONStore) GetConfigPath() string {
	if s.path == "" {
		return "memory"
	}
	return s.path
}
