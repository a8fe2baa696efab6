package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/upperspacecase/habitspace/internal/habit"
	"github.com/upperspacecase/habitspace/internal/ui"
)

func newCheckinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record today's check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := requireEmail()
			if err != nil {
				return err
			}

			ctx := context.Background()
			d, err := openService(ctx)
			if err != nil {
				return err
			}
			defer d.close()

			res, err := d.svc.RecordCheckin(ctx, email, time.Now())
			if errors.Is(err, habit.ErrAlreadyCheckedIn) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("You already checked in today. See you tomorrow!"))
				return nil
			}
			if errors.Is(err, habit.ErrNoActiveHabit) {
				return errors.New("no active habit; run `solo next` to pick one")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Checked in. %s\n", ui.Good.Render(ui.IconDone), ui.StreakText(res.Streak))

			switch ev := res.Event.(type) {
			case habit.LevelUp:
				fmt.Fprintf(cmd.OutOrStdout(), "%s Level %d unlocked!\n", ui.BadgeLevelUp, ev.NewLevel)
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("New task", ev.NewTask))
			case habit.Graduated:
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s is now part of you (%d days).\n", ui.BadgeGrad, ui.IconGrad, ev.HabitName, ev.TotalDays)
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Pick your next habit with `solo next`. The stack grows."))
			default:
				if h := res.User.ActiveHabit; h != nil {
					level := h.CurrentLevelData()
					fmt.Fprintf(cmd.OutOrStdout(), "Level %d progress: %s\n", h.CurrentLevel, ui.ProgressBar(h.CompletionsAtLevel, level.DaysRequired))
				}
			}
			return nil
		},
	}

	return cmd
}
