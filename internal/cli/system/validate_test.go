package system

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitpulse/internal/storage"
	"github.com/julianstephens/habitpulse/internal/storage/storagetest"
)

func TestValidateCmd_Clean(t *testing.T) {
	ctx, out, _ := setupTestDB(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := ctx.Store.PutHabit(storagetest.NewHabit("Water")); err != nil {
		t.Fatalf("PutHabit failed: %v", err)
	}

	out.Reset()
	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "No issues detected." {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestValidateCmd_ReportsIssues(t *testing.T) {
	ctx, out, _ := setupTestDB(t)
	ctx.Store = storage.NewMemoryStore()
	if err := ctx.Store.PutHabit(storagetest.NewHabit("Water")); err != nil {
		t.Fatalf("PutHabit failed: %v", err)
	}
	if err := ctx.Store.PutHabit(storagetest.NewHabit("water")); err != nil {
		t.Fatalf("PutHabit failed: %v", err)
	}

	if err := (&ValidateCmd{}).Run(ctx); err == nil {
		t.Fatal("expected validate to fail on duplicate names")
	}
	if !strings.Contains(out.String(), "Duplicate habit name") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, out, _ := setupTestDB(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	out.Reset()
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "No migrations to apply. Database is up to date.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestMigrateCmd_RequiresSQLStore(t *testing.T) {
	ctx, _, _ := setupTestDB(t)
	ctx.Store = storage.NewMemoryStore()
	if err := (&MigrateCmd{}).Run(ctx); err == nil {
		t.Error("expected migrate to fail for JSON storage")
	}
}
