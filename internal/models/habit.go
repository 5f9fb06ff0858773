package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitpulse/internal/constants"
)

// HabitKind says whether more logs are good news or bad news
type HabitKind string

const (
	KindReinforcing HabitKind = "reinforcing"
	KindReducing    HabitKind = "reducing"
)

// ParseHabitKind accepts the canonical kind names plus the labels used by
// older builds ("good"/"helpful" and "bad"/"obstructive").
func ParseHabitKind(s string) (HabitKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reinforcing", "good", "helpful":
		return KindReinforcing, nil
	case "reducing", "bad", "obstructive":
		return KindReducing, nil
	default:
		return "", fmt.Errorf("invalid habit kind: %q (expected reinforcing or reducing)", s)
	}
}

// Goal returns the direction the user is aiming for with this kind of habit.
func (k HabitKind) Goal() string {
	if k == KindReinforcing {
		return "maintain or increase"
	}
	return "reduce or quit"
}

// ColorTag is a style reference picked from a fixed palette at creation
type ColorTag string

const (
	ColorRed     ColorTag = "red"
	ColorOrange  ColorTag = "orange"
	ColorAmber   ColorTag = "amber"
	ColorEmerald ColorTag = "emerald"
	ColorTeal    ColorTag = "teal"
	ColorCyan    ColorTag = "cyan"
	ColorBlue    ColorTag = "blue"
	ColorIndigo  ColorTag = "indigo"
	ColorViolet  ColorTag = "violet"
	ColorFuchsia ColorTag = "fuchsia"
	ColorPink    ColorTag = "pink"
	ColorRose    ColorTag = "rose"
)

// DefaultColor is used when a draft does not name one
const DefaultColor = ColorIndigo

var colorHex = map[ColorTag]string{
	ColorRed:     "#ef4444",
	ColorOrange:  "#f97316",
	ColorAmber:   "#f59e0b",
	ColorEmerald: "#10b981",
	ColorTeal:    "#14b8a6",
	ColorCyan:    "#06b6d4",
	ColorBlue:    "#3b82f6",
	ColorIndigo:  "#6366f1",
	ColorViolet:  "#8b5cf6",
	ColorFuchsia: "#d946ef",
	ColorPink:    "#ec4899",
	ColorRose:    "#f43f5e",
}

// Colors lists the palette in display order.
var Colors = []ColorTag{
	ColorRed, ColorOrange, ColorAmber, ColorEmerald, ColorTeal, ColorCyan,
	ColorBlue, ColorIndigo, ColorViolet, ColorFuchsia, ColorPink, ColorRose,
}

// Valid reports whether c is part of the palette.
func (c ColorTag) Valid() bool {
	_, ok := colorHex[c]
	return ok
}

// Hex returns the display color for c, falling back to the default color.
func (c ColorTag) Hex() string {
	if hex, ok := colorHex[c]; ok {
		return hex
	}
	return colorHex[DefaultColor]
}

// Habit represents a user-defined behavior to track
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Kind      HabitKind `json:"kind"`
	Color     ColorTag  `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	Archived  bool      `json:"archived"`
	Unit      string    `json:"unit,omitempty"` // e.g. "minutes", "cigs"
}

// UnitLabel returns the unit shown next to totals.
func (h Habit) UnitLabel() string {
	if h.Unit == "" {
		return constants.DefaultUnit
	}
	return h.Unit
}

// HabitLog represents one recorded occurrence of a habit
type HabitLog struct {
	ID        string  `json:"id"`
	HabitID   string  `json:"habit_id"`
	Timestamp int64   `json:"timestamp"` // milliseconds since epoch
	Value     float64 `json:"value"`
}

// Time returns the log timestamp as a time.Time in loc.
func (l HabitLog) Time(loc *time.Location) time.Time {
	return time.UnixMilli(l.Timestamp).In(loc)
}

// DayTotal is one calendar-day bucket of logs for a habit
type DayTotal struct {
	Day   time.Time // local midnight
	Total float64
	Count int
}

// HabitDraft holds the user-supplied fields for a new habit
type HabitDraft struct {
	Name  string
	Emoji string
	Kind  HabitKind
	Color ColorTag
	Unit  string
}
