package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetAPIKey(t *testing.T) {
	gokeyring.MockInit()

	if err := SetAPIKey("  test-key-1234  "); err != nil {
		t.Fatalf("SetAPIKey() failed: %v", err)
	}

	retrieved, err := GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey() failed: %v", err)
	}
	if retrieved != "test-key-1234" {
		t.Errorf("GetAPIKey() = %q, want %q", retrieved, "test-key-1234")
	}
}

func TestSetAPIKeyEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetAPIKey("   "); err == nil {
		t.Error("SetAPIKey(blank) should return an error")
	}
}

func TestGetAPIKeyNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteAPIKey()

	if _, err := GetAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAPIKey() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteAPIKey(t *testing.T) {
	gokeyring.MockInit()

	if err := SetAPIKey("abc"); err != nil {
		t.Fatalf("SetAPIKey() failed: %v", err)
	}
	if err := DeleteAPIKey(); err != nil {
		t.Fatalf("DeleteAPIKey() failed: %v", err)
	}
	if err := DeleteAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteAPIKey() error = %v, want %v", err, ErrNotFound)
	}
}

func TestResolveAPIKey(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteAPIKey()

	key, err := ResolveAPIKey("")
	if err != nil || key != "" {
		t.Errorf("ResolveAPIKey(\"\") with empty keyring = (%q, %v), want (\"\", nil)", key, err)
	}

	if err := SetAPIKey("from-keyring"); err != nil {
		t.Fatalf("SetAPIKey() failed: %v", err)
	}
	key, err = ResolveAPIKey("")
	if err != nil || key != "from-keyring" {
		t.Errorf("ResolveAPIKey(\"\") = (%q, %v), want from-keyring", key, err)
	}

	key, err = ResolveAPIKey("from-flag")
	if err != nil || key != "from-flag" {
		t.Errorf("ResolveAPIKey(flag) = (%q, %v), want from-flag", key, err)
	}
}

func TestMask(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"abc":        "***",
		"abcdefgh12": "******gh12",
	}
	for in, want := range tests {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
