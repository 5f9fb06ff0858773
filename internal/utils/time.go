package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/habitpulse/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a local midnight by n calendar days. Unlike t.Add(n*24h) the
// result stays on midnight across DST transitions.
func AddDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, day.Location())
}

// DayWindow returns the half-open millisecond range [start, end) covering the
// calendar day containing t in loc.
func DayWindow(t time.Time, loc *time.Location) (int64, int64) {
	start := StartOfDay(t, loc)
	return start.UnixMilli(), AddDays(start, 1).UnixMilli()
}

// DaysBetween counts calendar days from a to b in loc, ignoring time of day.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	sa := StartOfDay(a, loc)
	sb := StartOfDay(b, loc)
	// Compare as UTC dates so DST days of 23 or 25 hours don't skew the count
	ua := time.Date(sa.Year(), sa.Month(), sa.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(sb.Year(), sb.Month(), sb.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", dateStr)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
