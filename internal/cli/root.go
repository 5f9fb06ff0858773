package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitpulse/internal/app"
	"github.com/julianstephens/habitpulse/internal/backup"
	"github.com/julianstephens/habitpulse/internal/insight"
	"github.com/julianstephens/habitpulse/internal/keyring"
	"github.com/julianstephens/habitpulse/internal/logger"
	"github.com/julianstephens/habitpulse/internal/storage"
	"github.com/julianstephens/habitpulse/internal/storage/sqlite"
)

type Context struct {
	Store storage.Provider
	// APIKey comes from --api-key or GEMINI_API_KEY; empty falls back to the keyring
	APIKey   string
	Location *time.Location
	Out      io.Writer

	// Generator overrides the insight backend resolved from APIKey
	Generator insight.Generator
	// Confirm asks a yes/no question; nil uses an interactive huh prompt
	Confirm func(title, description string) (bool, error)
	// AppOptions are passed to the controller when it is created
	AppOptions []app.Option

	controller *app.Controller
}

// App loads the store and returns a started controller, creating it on first
// use.
func (c *Context) App() (*app.Controller, error) {
	if c.controller != nil {
		return c.controller, nil
	}
	if err := c.Store.Load(); err != nil {
		return nil, err
	}

	opts := append([]app.Option{app.WithLocation(c.Loc())}, c.AppOptions...)
	c.controller = app.New(c.Store, opts...)
	c.controller.Start()
	return c.controller, nil
}

// Loc returns the zone used for calendar days.
func (c *Context) Loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// InsightGenerator returns the configured generator, or nil if no API key is
// available.
func (c *Context) InsightGenerator() insight.Generator {
	if c.Generator != nil {
		return c.Generator
	}
	key, err := keyring.ResolveAPIKey(c.APIKey)
	if err != nil {
		logger.Warn("Failed to read API key from keyring", "error", err)
	}
	if key == "" {
		return nil
	}
	return insight.NewGeminiGenerator(key)
}

// AskConfirm runs the Confirm hook or an interactive prompt.
func (c *Context) AskConfirm(title, description string) (bool, error) {
	if c.Confirm != nil {
		return c.Confirm(title, description)
	}

	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}

// PerformAutomaticBackup snapshots a file-backed SQLite store before a
// destructive command. Failures are logged and otherwise ignored. It returns
// the backup path, or "" if none was made.
func (c *Context) PerformAutomaticBackup() string {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return ""
	}
	path := c.Store.GetConfigPath()
	if path == sqlite.MemoryPath {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}

	backupPath, err := backup.NewManager(path).CreateBackup()
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
		return ""
	}
	return backupPath
}
