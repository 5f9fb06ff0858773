// Package aggregate folds habit logs into day buckets and summary numbers.
// Everything here is pure: no storage access, no caching.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitpulse/internal/models"
	"github.com/julianstephens/habitpulse/internal/utils"
)

// TotalForDay sums the values of habitID's logs that fall on day's calendar
// date in loc. A log at exactly local midnight belongs to the day it starts.
func TotalForDay(logs []models.HabitLog, habitID string, day time.Time, loc *time.Location) float64 {
	start, end := utils.DayWindow(day, loc)
	var total float64
	for _, l := range logs {
		if l.HabitID == habitID && l.Timestamp >= start && l.Timestamp < end {
			total += l.Value
		}
	}
	return total
}

// DailyTotalsForWindow returns one bucket per calendar day for the
// windowSizeDays days ending at endDay (inclusive), oldest first.
// Days without logs have a zero total.
func DailyTotalsForWindow(logs []models.HabitLog, habitID string, endDay time.Time, windowSizeDays int, loc *time.Location) []models.DayTotal {
	if windowSizeDays <= 0 {
		return []models.DayTotal{}
	}

	last := utils.StartOfDay(endDay, loc)
	first := utils.AddDays(last, -(windowSizeDays - 1))

	buckets := make([]models.DayTotal, windowSizeDays)
	bounds := make([]int64, windowSizeDays+1)
	for i := 0; i < windowSizeDays; i++ {
		day := utils.AddDays(first, i)
		buckets[i].Day = day
		bounds[i] = day.UnixMilli()
	}
	bounds[windowSizeDays] = utils.AddDays(last, 1).UnixMilli()

	for _, l := range logs {
		if l.HabitID != habitID || l.Timestamp < bounds[0] || l.Timestamp >= bounds[windowSizeDays] {
			continue
		}
		// First boundary strictly after the timestamp, minus one, is the bucket
		i := sort.Search(len(bounds), func(j int) bool { return bounds[j] > l.Timestamp }) - 1
		buckets[i].Total += l.Value
		buckets[i].Count++
	}

	return buckets
}

// RunningTotal sums every log value.
func RunningTotal(logs []models.HabitLog) float64 {
	var total float64
	for _, l := range logs {
		total += l.Value
	}
	return total
}

// AveragePerRecordedDay divides the running total by a fixed assumed period,
// rounded to one decimal. With no logs the divisor is 1, so the result is 0.
// The divisor does not track how long the habit has existed; see
// AveragePerElapsedDay for that.
func AveragePerRecordedDay(logs []models.HabitLog, assumedPeriodDays int) float64 {
	divisor := 1
	if len(logs) > 0 && assumedPeriodDays > 0 {
		divisor = assumedPeriodDays
	}
	return round1(RunningTotal(logs) / float64(divisor))
}

// AveragePerElapsedDay divides the running total by the number of calendar
// days since the habit was created (at least 1), rounded to one decimal.
func AveragePerElapsedDay(logs []models.HabitLog, createdAt, now time.Time, loc *time.Location) float64 {
	days := utils.DaysBetween(createdAt, now, loc)
	if days < 1 {
		days = 1
	}
	return round1(RunningTotal(logs) / float64(days))
}

// LogsForHabit filters logs down to habitID, most recent first.
func LogsForHabit(logs []models.HabitLog, habitID string) []models.HabitLog {
	out := make([]models.HabitLog, 0)
	for _, l := range logs {
		if l.HabitID == habitID {
			out = append(out, l)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders logs by timestamp descending, in place.
// Ties keep their input order.
func SortNewestFirst(logs []models.HabitLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp > logs[j].Timestamp
	})
}

// MaxTotal returns the largest bucket total, useful for scaling charts.
func MaxTotal(buckets []models.DayTotal) float64 {
	var max float64
	for _, b := range buckets {
		if b.Total > max {
			max = b.Total
		}
	}
	return max
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
