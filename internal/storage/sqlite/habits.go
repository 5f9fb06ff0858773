package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitpulse/internal/models"
)

const habitColumns = "id, name, emoji, kind, color, created_at, archived, unit"

func (s *Store) PutHabit(habit models.Habit) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			emoji = excluded.emoji,
			kind = excluded.kind,
			color = excluded.color,
			created_at = excluded.created_at,
			archived = excluded.archived,
			unit = excluded.unit`,
		habit.ID, habit.Name, habit.Emoji, string(habit.Kind), string(habit.Color),
		habit.CreatedAt.UnixMilli(), habit.Archived, habit.Unit)
	if err != nil {
		return fmt.Errorf("failed to save habit %s: %w", habit.ID, err)
	}
	return nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT " + habitColumns + " FROM habits ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var h models.Habit
		var kind, color string
		var createdAt int64

		if err := rows.Scan(&h.ID, &h.Name, &h.Emoji, &kind, &color, &createdAt, &h.Archived, &h.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		h.Kind = models.HabitKind(kind)
		h.Color = models.ColorTag(color)
		h.CreatedAt = time.UnixMilli(createdAt)

		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}

	return habits, nil
}

func (s *Store) DeleteHabit(id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM logs WHERE habit_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete logs for habit %s: %w", id, err)
	}

	if s.afterLogsDeleted != nil {
		if err := s.afterLogsDeleted(tx); err != nil {
			return err
		}
	}

	if _, err := tx.Exec("DELETE FROM habits WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete habit %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of habit %s: %w", id, err)
	}
	return nil
}
