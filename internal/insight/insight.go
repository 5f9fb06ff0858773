// Package insight asks a language model for a short commentary on a habit's
// recent history.
package insight

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/logger"
	"github.com/julianstephens/habitpulse/internal/models"
)

// ErrUnavailable is returned by a Generator that has no credentials
var ErrUnavailable = errors.New("insight generator not configured")

// Generator turns a prompt into free-form text.
type Generator interface {
	GenerateInsight(ctx context.Context, prompt string) (string, error)
}

// Requester builds prompts and turns every generator outcome into a
// displayable string.
type Requester struct {
	gen Generator
	loc *time.Location
}

// NewRequester returns a Requester. A nil gen behaves as unconfigured and a
// nil loc means local time.
func NewRequester(gen Generator, loc *time.Location) *Requester {
	if loc == nil {
		loc = time.Local
	}
	return &Requester{gen: gen, loc: loc}
}

// Analyze never fails; errors are logged and replaced with a placeholder.
func (r *Requester) Analyze(ctx context.Context, habit models.Habit, logs []models.HabitLog, period string) string {
	if r.gen == nil {
		return constants.InsightNotConfigured
	}

	if strings.TrimSpace(period) == "" {
		period = constants.InsightDefaultPeriod
	}

	log := logger.With("habit_id", habit.ID)

	prompt, err := BuildPrompt(habit, logs, period, r.loc)
	if err != nil {
		log.Error("Failed to build insight prompt", "error", err)
		return constants.InsightRequestFailed
	}

	text, err := r.gen.GenerateInsight(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			log.Warn("Insight requested without an API key")
			return constants.InsightNotConfigured
		}
		log.Error("Insight request failed", "error", err)
		return constants.InsightRequestFailed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn("Insight response was empty")
		return constants.InsightEmptyResponse
	}
	return text
}
