package system

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	result, err := validateRecords(ctx)
	if err != nil {
		return err
	}

	ctx.Println(strings.TrimSuffix(result.FormatReport(), "\n"))
	if result.HasIssues() {
		return fmt.Errorf("validation found %d issue(s)", len(result.Issues))
	}
	return nil
}

func validateRecords(ctx *cli.Context) (validation.ValidationResult, error) {
	if err := ctx.Store.Load(); err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load database: %w", err)
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get habits: %w", err)
	}
	logs, err := ctx.Store.GetAllLogs()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get logs: %w", err)
	}

	return validation.New().ValidateRecords(habits, logs, time.Now().UnixMilli()), nil
}
