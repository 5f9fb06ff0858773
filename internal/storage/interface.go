package storage

import (
	"errors"

	"github.com/julianstephens/habitpulse/internal/models"
)

var (
	// ErrConstraint is returned when a log with the same ID already exists
	ErrConstraint = errors.New("constraint violation: record already exists")
	// ErrHabitNotFound is returned when a log references a habit that does not exist
	ErrHabitNotFound = errors.New("habit not found")
	// ErrNotLoaded is returned when an operation runs before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrNotInitialized is returned by Load when there is nothing to open yet
	ErrNotInitialized = errors.New("storage not initialized, run 'habitpulse init' first")
)

// Provider is the durable record store for habits and their logs.
// Implementations return errors unchanged in kind (wrapped with %w) and never
// retry.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	PutHabit(models.Habit) error
	GetAllHabits() ([]models.Habit, error)
	// DeleteHabit removes the habit and all of its logs atomically. Deleting
	// an unknown id is a no-op.
	DeleteHabit(id string) error

	// Logs
	// AddLog inserts a log. It returns ErrConstraint if the ID is taken and
	// ErrHabitNotFound if the habit does not exist.
	AddLog(models.HabitLog) error
	// GetLogsForHabit returns the habit's logs, most recent first.
	GetLogsForHabit(habitID string) ([]models.HabitLog, error)
	GetAllLogs() ([]models.HabitLog, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL-backed stores.
type Migrator interface {
	// SchemaVersion reports the database's version and the newest one this
	// binary ships.
	SchemaVersion() (current, latest int, err error)
	// Migrate applies pending migrations, returning how many ran.
	Migrate() (int, error)
}
