package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/models"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" help:"Show database path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit and its logs as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	// Output in machine-readable format
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
}

type habitDump struct {
	Habit models.Habit      `json:"habit"`
	Logs  []models.HabitLog `json:"logs"`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.App()
	if err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	habit, err := ctrl.FindHabit(cmd.Name)
	if err != nil {
		return err
	}

	logs, err := ctx.Store.GetLogsForHabit(habit.ID)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}

	return printJSON(ctx, habitDump{Habit: habit, Logs: logs})
}

func printJSON(ctx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}
