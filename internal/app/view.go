package app

import (
	"time"

	"github.com/julianstephens/habitpulse/internal/aggregate"
	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/models"
)

// View is a copy of the controller state safe to hold after the call.
type View struct {
	State        State
	Habits       []models.Habit
	AllHabits    []models.Habit
	Logs         []models.HabitLog
	Selected     *models.Habit
	SelectedLogs []models.HabitLog
}

// Detail is the derived data for a single habit's detail screen.
type Detail struct {
	Habit          models.Habit
	Week           []models.DayTotal
	Today          float64
	TotalTracked   float64
	LogCount       int
	Average        float64
	ElapsedAverage float64
	Logs           []models.HabitLog // newest first
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:     c.state,
		Habits:    append([]models.Habit(nil), c.habits...),
		AllHabits: append([]models.Habit(nil), c.allHabits...),
		Logs:      append([]models.HabitLog(nil), c.logs...),
	}
	if c.selected != "" {
		if h, ok := c.findByIDLocked(c.selected); ok {
			v.Selected = &h
			v.SelectedLogs = aggregate.LogsForHabit(c.logs, h.ID)
		}
	}
	return v
}

// Detail computes the chart and summary numbers for id as of now. It uses
// only the loaded snapshot.
func (c *Controller) Detail(id string, now time.Time) (Detail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.findByIDLocked(id)
	if !ok {
		return Detail{}, false
	}

	logs := aggregate.LogsForHabit(c.logs, id)
	return Detail{
		Habit:          h,
		Week:           aggregate.DailyTotalsForWindow(logs, id, now, constants.ChartWindowDays, c.loc),
		Today:          aggregate.TotalForDay(logs, id, now, c.loc),
		TotalTracked:   aggregate.RunningTotal(logs),
		LogCount:       len(logs),
		Average:        aggregate.AveragePerRecordedDay(logs, constants.AssumedPeriodDays),
		ElapsedAverage: aggregate.AveragePerElapsedDay(logs, h.CreatedAt, now, c.loc),
		Logs:           logs,
	}, true
}
