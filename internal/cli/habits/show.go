package habits

import (
	"fmt"

	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/utils"
)

type HabitShowCmd struct {
	Name    string `arg:"" help:"Habit name or ID."`
	Elapsed bool   `help:"Average over days since the habit was created instead of a fixed 30 days."`
	History int    `help:"Number of recent logs to list." default:"10"`
	Day     string `help:"Show the week ending on this date (YYYY-MM-DD) instead of today."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
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

	asOf := ctrl.Now()
	chartTitle := fmt.Sprintf("Last %d days", constants.ChartWindowDays)
	if c.Day != "" {
		day, err := utils.ParseDateInLocation(c.Day, ctx.Loc())
		if err != nil {
			return fmt.Errorf("invalid --day %q (expected YYYY-MM-DD): %w", c.Day, err)
		}
		asOf = day
		chartTitle = fmt.Sprintf("%d days ending %s", constants.ChartWindowDays, c.Day)
	}

	detail, ok := ctrl.Detail(habit.ID, asOf)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	unit := habit.UnitLabel()
	ctx.Printf("%s  %s\n", cli.HabitLabel(habit), cli.Muted(fmt.Sprintf("%s · goal: %s", habit.Kind, habit.Kind.Goal())))
	if habit.Archived {
		ctx.Println(cli.Warning("This habit is archived."))
	}
	ctx.Println()

	ctx.Println(cli.Title(chartTitle))
	ctx.Printf("%s\n", cli.RenderWeekChart(detail.Week, habit.Color))

	average := detail.Average
	if c.Elapsed {
		average = detail.ElapsedAverage
	}
	ctx.Printf("Total tracked: %s %s\n", cli.FormatValue(detail.TotalTracked), unit)
	ctx.Printf("Total logs:    %d\n", detail.LogCount)
	ctx.Printf("Avg per day:   %s %s\n", cli.FormatValue(average), unit)
	ctx.Println()

	ctx.Println(cli.Title("History"))
	if len(detail.Logs) == 0 {
		ctx.Println(cli.Muted("No logs yet."))
		return nil
	}

	logs := detail.Logs
	if c.History > 0 && len(logs) > c.History {
		logs = logs[:c.History]
	}
	for _, l := range logs {
		ctx.Printf("%s  +%s %s\n", l.Time(ctx.Loc()).Format(constants.DateFormat+" 15:04"), cli.FormatValue(l.Value), unit)
	}
	if rest := len(detail.Logs) - len(logs); rest > 0 {
		ctx.Println(cli.Muted(fmt.Sprintf("... and %d more", rest)))
	}
	return nil
}
