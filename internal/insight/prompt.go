package insight

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/habitpulse/internal/aggregate"
	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/models"
)

type logSummary struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// BuildPrompt renders the request for habit. Only the most recent
// constants.InsightMaxLogs logs are included.
func BuildPrompt(habit models.Habit, logs []models.HabitLog, period string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}

	recent := make([]models.HabitLog, len(logs))
	copy(recent, logs)
	aggregate.SortNewestFirst(recent)
	if len(recent) > constants.InsightMaxLogs {
		recent = recent[:constants.InsightMaxLogs]
	}

	summary := make([]logSummary, 0, len(recent))
	for _, l := range recent {
		summary = append(summary, logSummary{
			Date:   l.Time(loc).Format(constants.DateFormat),
			Amount: l.Value,
		})
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to encode log summary: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze the following habit data for a user.
Habit: %s (%s).
Goal: To %s usage.
Period: %s
Data: %s

Please provide a concise, 2-3 sentence insight or encouragement based on the trend.
If it's a reducing habit and they are doing well (low/zero counts), congratulate them.
If usage is high for a reducing habit, provide a gentle warning.
Do not use markdown formatting, just plain text with emojis.`,
		habit.Name, habit.Kind, habit.Kind.Goal(), period, data)

	return prompt, nil
}
