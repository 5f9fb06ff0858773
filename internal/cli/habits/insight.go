package habits

import (
	"context"
	"time"

	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/insight"
)

type InsightCmd struct {
	Name    string        `arg:"" help:"Habit name or ID."`
	Period  string        `help:"Description of the period being analyzed." default:"Recent activity"`
	Timeout time.Duration `help:"Give up on the request after this long (0 waits indefinitely)." default:"0s"`
}

func (c *InsightCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.App()
	if err != nil {
		return err
	}

	habit, err := ctrl.FindHabit(c.Name)
	if err != nil {
		return err
	}

	ctrl.Select(habit.ID)
	defer ctrl.ClearSelection()
	logs := ctrl.Snapshot().SelectedLogs

	reqCtx := context.Background()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, c.Timeout)
		defer cancel()
	}

	requester := insight.NewRequester(ctx.InsightGenerator(), ctx.Loc())
	text := requester.Analyze(reqCtx, habit, logs, c.Period)

	ctx.Printf("%s %s\n\n", cli.HabitLabel(habit), cli.Muted("· "+c.periodLabel()))
	ctx.Println(text)
	return nil
}

func (c *InsightCmd) periodLabel() string {
	if c.Period == "" {
		return constants.InsightDefaultPeriod
	}
	return c.Period
}
