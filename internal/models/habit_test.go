package models

import (
	"testing"
	"time"

	"github.com/julianstephens/habitpulse/internal/constants"
)

func TestParseHabitKind(t *testing.T) {
	tests := []struct {
		input   string
		want    HabitKind
		wantErr bool
	}{
		{"reinforcing", KindReinforcing, false},
		{"Reducing", KindReducing, false},
		{" good ", KindReinforcing, false},
		{"helpful", KindReinforcing, false},
		{"bad", KindReducing, false},
		{"obstructive", KindReducing, false},
		{"", "", true},
		{"neutral", "", true},
	}

	for _, tt := range tests {
		got, err := ParseHabitKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHabitKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHabitKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHabitKindGoal(t *testing.T) {
	if got := KindReinforcing.Goal(); got != "maintain or increase" {
		t.Errorf("reinforcing goal = %q", got)
	}
	if got := KindReducing.Goal(); got != "reduce or quit" {
		t.Errorf("reducing goal = %q", got)
	}
}

func TestColorTag(t *testing.T) {
	for _, c := range Colors {
		if !c.Valid() {
			t.Errorf("palette color %q reported invalid", c)
		}
	}
	if ColorTag("mauve").Valid() {
		t.Error("unknown color reported valid")
	}
	if got := ColorTag("mauve").Hex(); got != DefaultColor.Hex() {
		t.Errorf("unknown color hex = %q, want default %q", got, DefaultColor.Hex())
	}
	if got := ColorEmerald.Hex(); got != "#10b981" {
		t.Errorf("emerald hex = %q", got)
	}
}

func TestUnitLabel(t *testing.T) {
	if got := (Habit{}).UnitLabel(); got != constants.DefaultUnit {
		t.Errorf("empty unit label = %q, want %q", got, constants.DefaultUnit)
	}
	if got := (Habit{Unit: "mins"}).UnitLabel(); got != "mins" {
		t.Errorf("unit label = %q, want mins", got)
	}
}

func TestHabitLogTime(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)
	want := time.Date(2024, 6, 10, 0, 0, 0, 0, loc)
	l := HabitLog{Timestamp: want.UnixMilli()}
	if got := l.Time(loc); !got.Equal(want) || got.Location() != loc {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}
