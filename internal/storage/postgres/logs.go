package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitpulse/internal/models"
	"github.com/julianstephens/habitpulse/internal/storage"
)

func (s *Store) AddLog(log models.HabitLog) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// FOR SHARE keeps the habit from being deleted until this insert commits
	var one int
	err = tx.QueryRow("SELECT 1 FROM habits WHERE id = $1 FOR SHARE", log.HabitID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to add log for habit %s: %w", log.HabitID, storage.ErrHabitNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up habit %s: %w", log.HabitID, err)
	}

	_, err = tx.Exec(
		"INSERT INTO logs (id, habit_id, timestamp, value) VALUES ($1, $2, $3, $4)",
		log.ID, log.HabitID, log.Timestamp, log.Value)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to add log %s: %w", log.ID, storage.ErrConstraint)
		}
		return fmt.Errorf("failed to add log %s: %w", log.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit log %s: %w", log.ID, err)
	}
	return nil
}

func (s *Store) GetLogsForHabit(habitID string) ([]models.HabitLog, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT id, habit_id, timestamp, value
		FROM logs WHERE habit_id = $1
		ORDER BY timestamp DESC, id`, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs for habit %s: %w", habitID, err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

func (s *Store) GetAllLogs() ([]models.HabitLog, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT id, habit_id, timestamp, value FROM logs")
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

func scanLogs(rows *sql.Rows) ([]models.HabitLog, error) {
	logs := []models.HabitLog{}
	for rows.Next() {
		var l models.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.Timestamp, &l.Value); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}
	return logs, nil
}
