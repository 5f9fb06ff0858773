// Package app holds the in-memory view of the record store and the commands
// that change it. Every command writes through the store and then reloads
// everything; nothing is patched in place.
package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitpulse/internal/aggregate"
	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/logger"
	"github.com/julianstephens/habitpulse/internal/models"
	"github.com/julianstephens/habitpulse/internal/storage"
	"github.com/julianstephens/habitpulse/internal/validation"
)

var (
	// ErrValidation is returned before any store call when user input is rejected
	ErrValidation = errors.New("validation failed")
	// ErrHabitNotFound is returned when a habit is not in the loaded snapshot
	ErrHabitNotFound = errors.New("habit not found")
	// ErrAmbiguousHabit is returned when a name matches more than one habit
	ErrAmbiguousHabit = errors.New("habit name is ambiguous")
)

type State int

const (
	StateLoading State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Controller struct {
	mu        sync.Mutex
	store     storage.Provider
	validator *validation.Validator
	now       func() time.Time
	newID     func() string
	loc       *time.Location

	state     State
	habits    []models.Habit // active only
	allHabits []models.Habit
	logs      []models.HabitLog
	selected  string
}

type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithLocation sets the zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func New(store storage.Provider, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		validator: validation.New(),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		loc:       time.Local,
		state:     StateLoading,
		habits:    []models.Habit{},
		allHabits: []models.Habit{},
		logs:      []models.HabitLog{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start performs the initial load. It always ends in StateReady.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
}

// Refresh reloads habits and logs from the store.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
}

func (c *Controller) refreshLocked() {
	defer func() { c.state = StateReady }()

	habits, err := c.store.GetAllHabits()
	if err != nil {
		logger.Error("Failed to load habits, keeping previous snapshot", "error", err)
		return
	}
	logs, err := c.store.GetAllLogs()
	if err != nil {
		logger.Error("Failed to load logs, keeping previous snapshot", "error", err)
		return
	}

	active := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if !h.Archived {
			active = append(active, h)
		}
	}

	c.allHabits = habits
	c.habits = active
	c.logs = logs
	logger.Debug("Snapshot refreshed", "habits", len(habits), "active", len(active), "logs", len(logs))
}

// CreateHabit validates draft, fills in defaults and persists a new habit.
func (c *Controller) CreateHabit(draft models.HabitDraft) (models.Habit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := c.validator.ValidateDraft(draft)
	if err := result.Err(); err != nil {
		return models.Habit{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	habit := models.Habit{
		ID:        c.newID(),
		Name:      strings.TrimSpace(draft.Name),
		Emoji:     strings.TrimSpace(draft.Emoji),
		Kind:      draft.Kind,
		Color:     draft.Color,
		CreatedAt: time.UnixMilli(c.now().UnixMilli()),
		Unit:      strings.TrimSpace(draft.Unit),
	}
	if habit.Emoji == "" {
		habit.Emoji = constants.DefaultEmoji
	}
	if habit.Color == "" {
		habit.Color = models.DefaultColor
	}

	if err := c.store.PutHabit(habit); err != nil {
		logger.Error("Failed to create habit", "name", habit.Name, "error", err)
		return models.Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}
	logger.Info("Habit created", "habit_id", habit.ID, "name", habit.Name)

	c.refreshLocked()
	return habit, nil
}

// RecordEvent adds one occurrence to habitID. Each call creates a new log.
func (c *Controller) RecordEvent(habitID string) (models.HabitLog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recordLocked(habitID, constants.QuickLogValue)
}

// RecordValue adds a log with an explicit quantity.
func (c *Controller) RecordValue(habitID string, value float64) (models.HabitLog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validator.ValidateLogValue(value); err != nil {
		return models.HabitLog{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return c.recordLocked(habitID, value)
}

func (c *Controller) recordLocked(habitID string, value float64) (models.HabitLog, error) {
	log := models.HabitLog{
		ID:        c.newID(),
		HabitID:   habitID,
		Timestamp: c.now().UnixMilli(),
		Value:     value,
	}

	if err := c.store.AddLog(log); err != nil {
		logger.Error("Failed to record log", "habit_id", habitID, "error", err)
		return models.HabitLog{}, fmt.Errorf("failed to record log: %w", err)
	}
	logger.Debug("Log recorded", "habit_id", habitID, "log_id", log.ID, "value", value)

	c.refreshLocked()
	return log, nil
}

// RemoveHabit deletes a habit and its history.
func (c *Controller) RemoveHabit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.DeleteHabit(id); err != nil {
		logger.Error("Failed to delete habit", "habit_id", id, "error", err)
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	logger.Info("Habit deleted", "habit_id", id)

	if c.selected == id {
		c.selected = ""
	}
	c.refreshLocked()
	return nil
}

// SetArchived hides or restores a habit without touching its logs.
func (c *Controller) SetArchived(id string, archived bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	habit, ok := c.findByIDLocked(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	if habit.Archived == archived {
		return nil
	}

	habit.Archived = archived
	if err := c.store.PutHabit(habit); err != nil {
		logger.Error("Failed to update habit", "habit_id", id, "archived", archived, "error", err)
		return fmt.Errorf("failed to update habit: %w", err)
	}
	logger.Info("Habit archive flag changed", "habit_id", id, "archived", archived)

	c.refreshLocked()
	return nil
}

// Select opens the detail view for id. It reports false if id is unknown.
func (c *Controller) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.findByIDLocked(id); !ok {
		return false
	}
	c.selected = id
	return true
}

func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
}

// FindHabit resolves ref as an ID, or failing that as a case-insensitive name.
func (c *Controller) FindHabit(ref string) (models.Habit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if h, ok := c.findByIDLocked(ref); ok {
		return h, nil
	}

	var matches []models.Habit
	for _, h := range c.allHabits {
		if strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %q", ErrHabitNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%w: %q matches %d habits, use the ID", ErrAmbiguousHabit, ref, len(matches))
	}
}

func (c *Controller) findByIDLocked(id string) (models.Habit, bool) {
	for _, h := range c.allHabits {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}

// Now returns the controller's clock reading.
func (c *Controller) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Controller) Location() *time.Location {
	return c.loc
}

// TodayTotal sums habitID's logs for the current calendar day.
func (c *Controller) TodayTotal(habitID string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.TotalForDay(c.logs, habitID, c.Now(), c.loc)
}
