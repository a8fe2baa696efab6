package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/upperspacecase/habitspace/internal/habit"
	"github.com/upperspacecase/habitspace/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show your habit, progress, streak, and badges",
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

			today := habit.DayOf(time.Now())
			user, err := d.svc.GetUser(ctx, email)
			if err != nil {
				return err
			}
			streak, err := d.svc.Streak(ctx, email, today)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSparkle, "Solo Status"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Email", user.Email))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Streak", ui.StreakText(streak)))
			fmt.Fprintln(cmd.OutOrStdout(), "")

			if h := user.ActiveHabit; h != nil {
				level := h.CurrentLevelData()
				fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(fmt.Sprintf("%s %s", h.Emoji, h.Name)))
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Today's task", level.Task))
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Level", fmt.Sprintf("%d of %d", h.CurrentLevel, len(h.Levels))))
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Key.Render("Progress:"), ui.ProgressBar(h.CompletionsAtLevel, level.DaysRequired))
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("Started %s", h.StartedAt)))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No active habit. Run `solo next` to pick one."))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "")

			badges, err := d.svc.BadgesFor(ctx, email, today)
			if err != nil {
				return err
			}
			earned := 0
			for _, b := range badges {
				if b.Earned {
					earned++
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(fmt.Sprintf("Badges (%d/%d)", earned, len(badges))))
			for _, b := range badges {
				if b.Earned {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", b.Icon, ui.Good.Render(b.Name), ui.Muted.Render(b.Description))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", ui.Muted.Render(fmt.Sprintf("🔒 %s (%s)", b.Name, b.Description)))
				}
			}

			return nil
		},
	}

	return cmd
}
