package system

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/storage/sqlite"
)

// setupTestDB returns a context over an uninitialized SQLite file.
func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitpulse.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out, dbPath
}
