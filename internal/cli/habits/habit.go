package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitpulse/internal/app"
	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/constants"
	"github.com/julianstephens/habitpulse/internal/models"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits with today's totals." default:"1"`
	Log       HabitLogCmd       `cmd:"" help:"Record an event for a habit."`
	Show      HabitShowCmd      `cmd:"" help:"Show a habit's last 7 days and history."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Restore an archived habit."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit and all of its history."`
}

type HabitAddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Emoji string `help:"Emoji shown next to the habit." default:""`
	Kind  string `help:"reinforcing (do more) or reducing (do less)." default:"reinforcing"`
	Color string `help:"Color tag (red, orange, amber, emerald, teal, cyan, blue, indigo, violet, fuchsia, pink, rose)." default:""`
	Unit  string `help:"Unit for logged values, e.g. glasses or mins." default:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.App()
	if err != nil {
		return err
	}

	// Check if habit with same name already exists
	if _, err := ctrl.FindHabit(c.Name); err == nil || errors.Is(err, app.ErrAmbiguousHabit) {
		return fmt.Errorf("habit with name %q already exists", strings.TrimSpace(c.Name))
	}

	kind, err := models.ParseHabitKind(c.Kind)
	if err != nil {
		return err
	}

	habit, err := ctrl.CreateHabit(models.HabitDraft{
		Name:  c.Name,
		Emoji: c.Emoji,
		Kind:  kind,
		Color: models.ColorTag(strings.ToLower(strings.TrimSpace(c.Color))),
		Unit:  c.Unit,
	})
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s)\n", cli.HabitLabel(habit), habit.Kind)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.App()
	if err != nil {
		return err
	}

	view := ctrl.Snapshot()
	habits := view.Habits
	if c.Archived {
		habits = view.AllHabits
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if h.Archived {
			status = cli.Muted(" [ARCHIVED]")
		}
		today := ctrl.TodayTotal(h.ID)
		ctx.Printf("%s%s  %s %s today\n", cli.HabitLabel(h), status, cli.FormatValue(today), h.UnitLabel())
	}
	return nil
}

type HabitLogCmd struct {
	Name  string  `arg:"" help:"Habit name or ID."`
	Value float64 `help:"Amount to record; omit for a single event." default:"1"`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.App()
	if err != nil {
		return err
	}

	habit, err := ctrl.FindHabit(c.Name)
	if err != nil {
		return err
	}

	if c.Value == constants.QuickLogValue {
		_, err = ctrl.RecordEvent(habit.ID)
	} else {
		_, err = ctrl.RecordValue(habit.ID, c.Value)
	}
	if err != nil {
		return err
	}

	ctx.Printf("Logged %s %s for %s (today: %s)\n",
		cli.FormatValue(c.Value), habit.UnitLabel(), cli.HabitLabel(habit), cli.FormatValue(ctrl.TodayTotal(habit.ID)))
	return nil
}

type HabitArchiveCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	return setArchived(ctx, c.Name, true)
}

type HabitUnarchiveCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
}

func (c *HabitUnarchiveCmd) Run(ctx *cli.Context) error {
	return setArchived(ctx, c.Name, false)
}

func setArchived(ctx *cli.Context, ref string, archived bool) error {
	ctrl, err := ctx.App()
	if err != nil {
		return err
	}

	habit, err := ctrl.FindHabit(ref)
	if err != nil {
		return err
	}
	if err := ctrl.SetArchived(habit.ID, archived); err != nil {
		return err
	}

	if archived {
		ctx.Printf("Archived habit: %s\n", cli.HabitLabel(habit))
	} else {
		ctx.Printf("Unarchived habit: %s\n", cli.HabitLabel(habit))
	}
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.App()
	if err != nil {
		return err
	}

	habit, err := ctrl.FindHabit(c.Name)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.AskConfirm(
			"Delete this habit and all history?",
			fmt.Sprintf("%s %s will be removed permanently.", habit.Emoji, habit.Name),
		)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	if path := ctx.PerformAutomaticBackup(); path != "" {
		ctx.Println(cli.Muted("Backup saved to " + path))
	}

	if err := ctrl.RemoveHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
