package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/logger"
	"github.com/julianstephens/habitpulse/internal/storage"
	"github.com/julianstephens/habitpulse/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Source string `help:"Source database path or connection string to copy habits and logs from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitpulse storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

// reset removes an existing SQLite file after backing it up.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for SQLite storage")
	}
	dbPath := ctx.Store.GetConfigPath()
	if dbPath == sqlite.MemoryPath {
		return nil
	}

	// Don't delete if it's the source (user error protection)
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if path := ctx.PerformAutomaticBackup(); path != "" {
			ctx.Printf("Backed up existing database to: %s\n", path)
		}
		// Close first so the file isn't held open
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// migrateData copies every habit and log from the source store. Re-running is
// safe: habits are upserted and logs that already exist are skipped.
func (c *InitCmd) migrateData(ctx *cli.Context) error {
	source, err := cli.OpenStore(c.Source)
	if err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	ctx.Println("  Migrating habits...")
	habits, err := source.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range habits {
		if err := ctx.Store.PutHabit(h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}
	ctx.Printf("    Migrated %d habits\n", len(habits))

	ctx.Println("  Migrating logs...")
	logs, err := source.GetAllLogs()
	if err != nil {
		return fmt.Errorf("failed to get logs from source: %w", err)
	}
	migrated, skipped := 0, 0
	for _, l := range logs {
		err := ctx.Store.AddLog(l)
		switch {
		case err == nil:
			migrated++
		case errors.Is(err, storage.ErrConstraint):
			skipped++
		case errors.Is(err, storage.ErrHabitNotFound):
			// Orphans in the source are dropped rather than carried over
			logger.Warn("Skipping orphaned log during migration", "log_id", l.ID, "habit_id", l.HabitID)
			skipped++
		default:
			return fmt.Errorf("failed to add log %s: %w", l.ID, err)
		}
	}
	ctx.Printf("    Migrated %d logs (%d skipped)\n", migrated, skipped)
	return nil
}
