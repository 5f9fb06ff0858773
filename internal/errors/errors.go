package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitpulse/internal/app"
	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/keyring"
	"github.com/julianstephens/habitpulse/internal/logger"
	"github.com/julianstephens/habitpulse/internal/migration"
	"github.com/julianstephens/habitpulse/internal/storage"
	"github.com/julianstephens/habitpulse/internal/storage/postgres"
)

// hints are printed under the error line for failures the user can fix
var hints = []struct {
	target error
	lines  []string
}{
	{storage.ErrNotInitialized, []string{
		"Run 'habitpulse init' to create the database, or point --config",
		fmt.Sprintf("(or %s) at an existing one.", constants.EnvDBConnection),
	}},
	{postgres.ErrEmbeddedCredentials, []string{
		"PostgreSQL connection strings with embedded credentials are NOT allowed.",
		"Use one of these secure alternatives:",
		"  1. .pgpass file:  \"postgresql://user@host:5432/habitpulse\" with the password in ~/.pgpass",
		"  2. Environment:   export PGPASSWORD=... alongside a password-free connection string",
	}},
	{migration.ErrSchemaTooNew, []string{
		"The database was written by a newer habitpulse. Upgrade before using it.",
	}},
	{app.ErrAmbiguousHabit, []string{
		"Several habits share that name. Use the habit ID instead ('habitpulse habit list --archived').",
	}},
	{app.ErrValidation, []string{
		"Habit names cannot be blank, --kind is reinforcing or reducing, and --color must be a palette color.",
	}},
	{keyring.ErrKeyringUnavailable, []string{
		fmt.Sprintf("Pass --api-key or set %s instead of using the OS keyring.", constants.EnvAPIKey),
	}},
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns follow-up guidance for err, or nil if there is none.
func Hint(err error) []string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.lines
		}
	}
	return nil
}

func report(w io.Writer, err error) {
	fmt.Fprintln(w, Format(err))
	for _, line := range Hint(err) {
		fmt.Fprintf(w, "       %s\n", line)
	}
}

// Fatal logs err, prints it with any hint, and exits with code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		_ = logger.Close()
		report(os.Stderr, err)
		os.Exit(1)
	}
}

// Fatalf is Fatal for a formatted message; %w verbs keep their hints
func Fatalf(format string, args ...interface{}) {
	Fatal(fmt.Errorf(format, args...))
}
