package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/storage"
	"github.com/julianstephens/habitpulse/internal/storage/sqlite"
	"github.com/julianstephens/habitpulse/internal/storage/storagetest"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitpulse.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := ctx.Store.PutHabit(storagetest.NewHabit("Water")); err != nil {
		t.Fatalf("PutHabit failed: %v", err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: habitpulse-") {
		t.Errorf("unexpected output %q", out.String())
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created: "))

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), name) {
		t.Errorf("list output missing %s:\n%s", name, out.String())
	}

	if err := ctx.Store.PutHabit(storagetest.NewHabit("Coffee")); err != nil {
		t.Fatalf("PutHabit failed: %v", err)
	}

	var asked bool
	ctx.Confirm = func(title, description string) (bool, error) {
		asked = true
		return true, nil
	}
	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	if !asked {
		t.Error("restore did not ask for confirmation")
	}
	if !strings.Contains(out.String(), "✓ Database restored successfully!") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("reload after restore failed: %v", err)
	}
	habits, err := ctx.Store.GetAllHabits()
	if err != nil || len(habits) != 1 || habits[0].Name != "Water" {
		t.Errorf("restored habits = %+v (err %v), want only Water", habits, err)
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out := setupTestContext(t)
	(&BackupCreateCmd{}).Run(ctx)
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created: "))

	ctx.Confirm = func(title, description string) (bool, error) { return false, nil }
	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&BackupRestoreCmd{BackupFile: "habitpulse-nope.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected error for missing backup")
	}
}

func TestBackupUnsupportedStore(t *testing.T) {
	ctx := &cli.Context{Store: storage.NewMemoryStore(), Out: &bytes.Buffer{}}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected error for non-SQLite store")
	}
}
