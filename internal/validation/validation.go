package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/habitpulse/internal/models"
)

// IssueType represents the type of validation issue
type IssueType string

const (
	IssueEmptyName      IssueType = "empty_name"
	IssueInvalidKind    IssueType = "invalid_kind"
	IssueInvalidColor   IssueType = "invalid_color"
	IssueDuplicateName  IssueType = "duplicate_habit_name"
	IssueMissingID      IssueType = "missing_id"
	IssueOrphanedLog    IssueType = "orphaned_log"
	IssueInvalidValue   IssueType = "invalid_value"
	IssueFutureLog      IssueType = "future_log"
	IssueLogBeforeHabit IssueType = "log_before_habit"
)

// Issue represents a single problem found in a draft or in stored data
type Issue struct {
	Type        IssueType
	Description string
	HabitID     string // if applicable
	LogID       string // if applicable
}

// ValidationResult contains all detected issues
type ValidationResult struct {
	Issues []Issue
}

// HasIssues returns true if there are any issues
func (vr ValidationResult) HasIssues() bool {
	return len(vr.Issues) > 0
}

// Err collapses the result into a single error, or nil if there are no issues.
func (vr ValidationResult) Err() error {
	if !vr.HasIssues() {
		return nil
	}
	msgs := make([]string, 0, len(vr.Issues))
	for _, issue := range vr.Issues {
		msgs = append(msgs, issue.Description)
	}
	return errors.New(strings.Join(msgs, "; "))
}

// FormatReport returns a human-readable report of all issues
func (vr ValidationResult) FormatReport() string {
	if !vr.HasIssues() {
		return "No issues detected."
	}

	report := "Issues detected:\n"
	for _, issue := range vr.Issues {
		report += fmt.Sprintf("- %s\n", issue.Description)
	}
	return report
}

// Validator checks habit drafts and stored records
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateDraft checks the fields a user supplied for a new habit.
// Empty emoji and color are allowed; the caller fills in defaults.
func (v *Validator) ValidateDraft(draft models.HabitDraft) ValidationResult {
	result := ValidationResult{Issues: []Issue{}}

	if strings.TrimSpace(draft.Name) == "" {
		result.Issues = append(result.Issues, Issue{
			Type:        IssueEmptyName,
			Description: "habit name cannot be empty",
		})
	}

	if draft.Kind != models.KindReinforcing && draft.Kind != models.KindReducing {
		result.Issues = append(result.Issues, Issue{
			Type:        IssueInvalidKind,
			Description: fmt.Sprintf("invalid habit kind %q (expected reinforcing or reducing)", draft.Kind),
		})
	}

	if draft.Color != "" && !draft.Color.Valid() {
		result.Issues = append(result.Issues, Issue{
			Type:        IssueInvalidColor,
			Description: fmt.Sprintf("invalid color %q", draft.Color),
		})
	}

	return result
}

// ValidateLogValue checks a manually entered quantity.
func (v *Validator) ValidateLogValue(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("log value must be a positive number, got %v", value)
	}
	return nil
}

// ValidateRecords checks stored habits and logs for inconsistencies.
// nowMillis is used to flag logs recorded in the future.
func (v *Validator) ValidateRecords(habits []models.Habit, logs []models.HabitLog, nowMillis int64) ValidationResult {
	result := ValidationResult{Issues: []Issue{}}

	byID := make(map[string]models.Habit, len(habits))
	names := make(map[string][]string)
	for _, h := range habits {
		if h.ID == "" {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueMissingID,
				Description: fmt.Sprintf("Habit %q has no ID", h.Name),
			})
			continue
		}
		byID[h.ID] = h
		if strings.TrimSpace(h.Name) == "" {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueEmptyName,
				Description: fmt.Sprintf("Habit %s has an empty name", h.ID),
				HabitID:     h.ID,
			})
		} else {
			key := strings.ToLower(h.Name)
			names[key] = append(names[key], h.ID)
		}
		if h.Color != "" && !h.Color.Valid() {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidColor,
				Description: fmt.Sprintf("Habit %q has invalid color %q", h.Name, h.Color),
				HabitID:     h.ID,
			})
		}
	}

	// Sorted so the report is stable
	dupNames := make([]string, 0)
	for name, ids := range names {
		if len(ids) > 1 {
			dupNames = append(dupNames, name)
		}
	}
	sort.Strings(dupNames)
	for _, name := range dupNames {
		result.Issues = append(result.Issues, Issue{
			Type:        IssueDuplicateName,
			Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, names[name]),
		})
	}

	for _, l := range logs {
		h, ok := byID[l.HabitID]
		if !ok {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueOrphanedLog,
				Description: fmt.Sprintf("Log %s references missing habit %s", l.ID, l.HabitID),
				HabitID:     l.HabitID,
				LogID:       l.ID,
			})
			continue
		}
		if v.ValidateLogValue(l.Value) != nil {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidValue,
				Description: fmt.Sprintf("Log %s for %q has non-positive value %v", l.ID, h.Name, l.Value),
				HabitID:     h.ID,
				LogID:       l.ID,
			})
		}
		if l.Timestamp > nowMillis {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueFutureLog,
				Description: fmt.Sprintf("Log %s for %q is in the future", l.ID, h.Name),
				HabitID:     h.ID,
				LogID:       l.ID,
			})
		}
		if l.Timestamp < h.CreatedAt.UnixMilli() {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueLogBeforeHabit,
				Description: fmt.Sprintf("Log %s for %q predates the habit", l.ID, h.Name),
				HabitID:     h.ID,
				LogID:       l.ID,
			})
		}
	}

	return result
}
