package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/cli/backups"
	"github.com/julianstephens/habitpulse/internal/cli/habits"
	"github.com/julianstephens/habitpulse/internal/cli/system"
	"github.com/julianstephens/habitpulse/internal/constants"
	apperrors "github.com/julianstephens/habitpulse/internal/errors"
	"github.com/julianstephens/habitpulse/internal/logger"
	"github.com/julianstephens/habitpulse/internal/storage/postgres"
	"github.com/julianstephens/habitpulse/internal/storage/sqlite"
	"github.com/julianstephens/habitpulse/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database path (.db for SQLite, .json for a JSON document) or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded in the connection string; use .pgpass or PGPASSWORD instead." type:"string" default:"${default_config}" env:"HABITPULSE_DB"`
	APIKey   string `help:"Gemini API key for insights. Falls back to the OS keyring." name:"api-key" env:"GEMINI_API_KEY"`
	Timezone string `help:"IANA timezone used for calendar days (defaults to the system zone)." name:"tz"`
	LogDebug bool   `help:"Enable debug logging to stderr." name:"debug"`

	Init     system.InitCmd     `cmd:"" help:"Initialize habitpulse storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Validate stored habits and logs."`
	Debug    system.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Backup   backups.BackupCmd  `cmd:"" help:"Manage database backups."`
	Habit    habits.HabitCmd    `cmd:"" help:"Manage habits and habit tracking." default:"1"`
	Insight  habits.InsightCmd  `cmd:"" help:"Ask for an AI analysis of a habit."`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage the Gemini API key in the OS keyring."`
}

// configDir is where logs live: next to a file database, or the default
// config directory for PostgreSQL and in-memory stores.
func configDir(location string) string {
	if postgres.IsConnString(location) || location == sqlite.MemoryPath {
		location = constants.DefaultConfigPath
	}
	path, err := utils.ExpandHome(location)
	if err != nil {
		return "."
	}
	return filepath.Dir(path)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streak charts and AI insights"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.LogDebug, ConfigDir: configDir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer func() { _ = logger.Close() }()

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		apperrors.Fatalf("invalid timezone %q: %w", CLI.Timezone, err)
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	appCtx := &cli.Context{
		Store:    store,
		APIKey:   CLI.APIKey,
		Location: loc,
	}

	logger.Debug("Running command", "command", ctx.Command(), "storage", store.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		_ = store.Close()
		apperrors.Fatal(err)
	}
}
