package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitpulse/internal/backup"
	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/keyring"
	"github.com/julianstephens/habitpulse/internal/storage"
	"github.com/julianstephens/habitpulse/internal/storage/sqlite"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when storage can't be loaded
	needsDB bool
	// warnOnly failures don't fail the command
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Insight API key", warnOnly: true, run: checkAPIKey},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false

	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println(cli.Danger("Diagnostics completed with errors."))
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println(cli.Success("All diagnostics passed!"))
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetAllHabits(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// JSON store doesn't have schema version
		return nil
	}

	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}

	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitpulse migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok || ctx.Store.GetConfigPath() == sqlite.MemoryPath {
		return nil
	}

	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitpulse backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	result, err := validateRecords(ctx)
	if err != nil {
		return err
	}
	if result.HasIssues() {
		return fmt.Errorf("%d issue(s) found (run 'habitpulse validate' for details)", len(result.Issues))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	// Check if time is in a reasonable range (after 2020 and before 2100)
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkAPIKey(ctx *cli.Context) error {
	key, err := keyring.ResolveAPIKey(ctx.APIKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyringUnavailable) {
		return err
	}
	if key == "" {
		return fmt.Errorf("no Gemini API key configured - insights are disabled (use --api-key, %s or 'habitpulse keyring set')", constants.EnvAPIKey)
	}
	return nil
}
