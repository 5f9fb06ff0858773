package main

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/julianstephens/habitpulse/internal/constants"
)

func TestEnvTagsMatchConstants(t *testing.T) {
	typ := reflect.TypeOf(CLI)
	tests := map[string]string{
		"Config": constants.EnvDBConnection,
		"APIKey": constants.EnvAPIKey,
	}
	for field, want := range tests {
		f, ok := typ.FieldByName(field)
		if !ok {
			t.Fatalf("CLI has no %s field", field)
		}
		if got := f.Tag.Get("env"); got != want {
			t.Errorf("%s env tag = %q, want %q", field, got, want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	dir := t.TempDir()
	if got := configDir(filepath.Join(dir, "habitpulse.db")); got != dir {
		t.Errorf("configDir(file) = %q, want %q", got, dir)
	}
	fallback := configDir(constants.DefaultConfigPath)
	for _, loc := range []string{"postgres://me@localhost/habitpulse", ":memory:"} {
		if got := configDir(loc); got != fallback {
			t.Errorf("configDir(%q) = %q, want %q", loc, got, fallback)
		}
	}
}
