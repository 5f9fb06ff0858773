package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitpulse/internal/aggregate"
	"github.com/julianstephens/habitpulse/internal/models"
)

const chartWidth = 24

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

func Title(s string) string   { return titleStyle.Render(s) }
func Muted(s string) string   { return mutedStyle.Render(s) }
func Danger(s string) string  { return dangerStyle.Render(s) }
func Success(s string) string { return successStyle.Render(s) }
func Warning(s string) string { return warningStyle.Render(s) }

// FormatValue prints a log value without trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// HabitLabel renders "emoji name" in the habit's color.
func HabitLabel(h models.Habit) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color.Hex())).Bold(true)
	return fmt.Sprintf("%s %s", h.Emoji, style.Render(h.Name))
}

// RenderWeekChart draws one horizontal bar per day, scaled to the busiest day.
// The last row is today and is highlighted.
func RenderWeekChart(week []models.DayTotal, color models.ColorTag) string {
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color.Hex()))
	max := aggregate.MaxTotal(week)

	var b strings.Builder
	for i, day := range week {
		n := 0
		if max > 0 {
			n = int(math.Round(day.Total / max * chartWidth))
			if n == 0 && day.Total > 0 {
				n = 1
			}
		}

		label := day.Day.Format("Mon 01/02")
		if i == len(week)-1 {
			label = titleStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}

		bar := barStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", chartWidth-n)
		fmt.Fprintf(&b, "%s │%s %s\n", label, bar, FormatValue(day.Total))
	}
	return b.String()
}
