package aggregate

import (
	"testing"
	"time"

	"github.com/julianstephens/habitpulse/internal/models"
)

var testLoc = time.FixedZone("UTC-4", -4*3600)

func at(year int, month time.Month, day, hour, min int) int64 {
	return time.Date(year, month, day, hour, min, 0, 0, testLoc).UnixMilli()
}

func TestTotalForDay_FiltersHabitAndDay(t *testing.T) {
	day1 := time.Date(2024, 6, 9, 0, 0, 0, 0, testLoc)
	logs := []models.HabitLog{
		{ID: "1", HabitID: "habitA", Timestamp: at(2024, 6, 9, 10, 0), Value: 5},
		{ID: "2", HabitID: "habitB", Timestamp: at(2024, 6, 9, 10, 0), Value: 5},
		{ID: "3", HabitID: "habitA", Timestamp: at(2024, 6, 10, 10, 0), Value: 5},
	}

	if got := TotalForDay(logs, "habitA", day1, testLoc); got != 5 {
		t.Errorf("TotalForDay(habitA, day1) = %v, want 5", got)
	}
	if got := TotalForDay(logs, "habitA", day1.Add(15*time.Hour), testLoc); got != 5 {
		t.Errorf("TotalForDay with mid-day reference = %v, want 5", got)
	}
	if got := TotalForDay(logs, "missing", day1, testLoc); got != 0 {
		t.Errorf("TotalForDay(unknown habit) = %v, want 0", got)
	}
}

func TestTotalForDay_MidnightBoundary(t *testing.T) {
	midnight := time.Date(2024, 6, 10, 0, 0, 0, 0, testLoc)
	logs := []models.HabitLog{
		{ID: "1", HabitID: "h", Timestamp: midnight.UnixMilli(), Value: 3},
		{ID: "2", HabitID: "h", Timestamp: midnight.UnixMilli() - 1, Value: 7},
	}

	if got := TotalForDay(logs, "h", midnight, testLoc); got != 3 {
		t.Errorf("June 10 total = %v, want 3", got)
	}
	if got := TotalForDay(logs, "h", midnight.AddDate(0, 0, -1), testLoc); got != 7 {
		t.Errorf("June 9 total = %v, want 7", got)
	}
}

func TestDailyTotalsForWindow(t *testing.T) {
	endDay := time.Date(2024, 6, 10, 15, 0, 0, 0, testLoc)
	logs := []models.HabitLog{
		{ID: "1", HabitID: "h", Timestamp: at(2024, 6, 10, 0, 0), Value: 3},
		{ID: "2", HabitID: "h", Timestamp: at(2024, 6, 9, 23, 59), Value: 1},
		{ID: "3", HabitID: "h", Timestamp: at(2024, 6, 4, 8, 0), Value: 2},
		{ID: "4", HabitID: "h", Timestamp: at(2024, 6, 3, 8, 0), Value: 100}, // outside window
		{ID: "5", HabitID: "other", Timestamp: at(2024, 6, 10, 9, 0), Value: 50},
		{ID: "6", HabitID: "h", Timestamp: at(2024, 6, 11, 0, 0), Value: 9}, // after window
	}

	buckets := DailyTotalsForWindow(logs, "h", endDay, 7, testLoc)
	if len(buckets) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(buckets))
	}

	wantDays := []int{4, 5, 6, 7, 8, 9, 10}
	wantTotals := []float64{2, 0, 0, 0, 0, 1, 3}
	for i, b := range buckets {
		if b.Day.Day() != wantDays[i] || b.Day.Hour() != 0 {
			t.Errorf("bucket %d day = %v, want June %d 00:00", i, b.Day, wantDays[i])
		}
		if b.Total != wantTotals[i] {
			t.Errorf("bucket %d (%s) total = %v, want %v", i, b.Day.Format("2006-01-02"), b.Total, wantTotals[i])
		}
	}
	if buckets[6].Count != 1 {
		t.Errorf("June 10 count = %d, want 1", buckets[6].Count)
	}
}

func TestDailyTotalsForWindow_BoundaryLogGoesToItsOwnDay(t *testing.T) {
	endDay := time.Date(2024, 6, 10, 0, 0, 0, 0, testLoc)
	logs := []models.HabitLog{{ID: "1", HabitID: "h", Timestamp: endDay.UnixMilli(), Value: 3}}

	buckets := DailyTotalsForWindow(logs, "h", endDay, 7, testLoc)
	if got := buckets[6].Total; got != 3 {
		t.Errorf("2024-06-10 bucket = %v, want 3", got)
	}
	if got := buckets[5].Total; got != 0 {
		t.Errorf("2024-06-09 bucket = %v, want 0", got)
	}
}

func TestDailyTotalsForWindow_NonPositiveWindow(t *testing.T) {
	if got := DailyTotalsForWindow(nil, "h", time.Now(), 0, testLoc); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestRunningTotal(t *testing.T) {
	logs := []models.HabitLog{{Value: 1}, {Value: 2.5}, {Value: 3}}
	if got := RunningTotal(logs); got != 6.5 {
		t.Errorf("RunningTotal() = %v, want 6.5", got)
	}
	if got := RunningTotal(nil); got != 0 {
		t.Errorf("RunningTotal(nil) = %v, want 0", got)
	}
}

func TestAveragePerRecordedDay(t *testing.T) {
	if got := AveragePerRecordedDay([]models.HabitLog{}, 30); got != 0 {
		t.Errorf("AveragePerRecordedDay([], 30) = %v, want 0", got)
	}

	logs := make([]models.HabitLog, 10)
	for i := range logs {
		logs[i] = models.HabitLog{Value: 1}
	}
	// 10 / 30 = 0.333 -> 0.3
	if got := AveragePerRecordedDay(logs, 30); got != 0.3 {
		t.Errorf("AveragePerRecordedDay(10 logs, 30) = %v, want 0.3", got)
	}
	// 10 / 4 = 2.5
	if got := AveragePerRecordedDay(logs, 4); got != 2.5 {
		t.Errorf("AveragePerRecordedDay(10 logs, 4) = %v, want 2.5", got)
	}
}

func TestAveragePerElapsedDay(t *testing.T) {
	created := time.Date(2024, 6, 1, 20, 0, 0, 0, testLoc)
	logs := []models.HabitLog{{Value: 10}, {Value: 5}}

	// Same day: divisor clamps to 1
	if got := AveragePerElapsedDay(logs, created, created.Add(time.Hour), testLoc); got != 15 {
		t.Errorf("same-day average = %v, want 15", got)
	}
	// Ten calendar days later
	now := time.Date(2024, 6, 11, 8, 0, 0, 0, testLoc)
	if got := AveragePerElapsedDay(logs, created, now, testLoc); got != 1.5 {
		t.Errorf("elapsed average = %v, want 1.5", got)
	}
}

func TestLogsForHabit(t *testing.T) {
	logs := []models.HabitLog{
		{ID: "old", HabitID: "h", Timestamp: 100},
		{ID: "other", HabitID: "x", Timestamp: 300},
		{ID: "new", HabitID: "h", Timestamp: 200},
	}

	got := LogsForHabit(logs, "h")
	if len(got) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(got))
	}
	if got[0].ID != "new" || got[1].ID != "old" {
		t.Errorf("expected newest first, got %s, %s", got[0].ID, got[1].ID)
	}
	if logs[0].ID != "old" {
		t.Error("input slice was reordered")
	}
}

func TestMaxTotal(t *testing.T) {
	buckets := []models.DayTotal{{Total: 1}, {Total: 4}, {Total: 2}}
	if got := MaxTotal(buckets); got != 4 {
		t.Errorf("MaxTotal() = %v, want 4", got)
	}
}
