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

func newStartCmd() *cobra.Command {
	var customName string
	var reminderTime string

	cmd := &cobra.Command{
		Use:   "start [template-id]",
		Short: "Sign up and start your first habit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := requireEmail()
			if err != nil {
				return err
			}
			templateID := ""
			if len(args) == 1 {
				templateID = args[0]
			}
			if templateID == "" && customName == "" {
				return errors.New("pick a template id (see `solo templates`) or pass --name for a custom habit")
			}

			ctx := context.Background()
			d, err := openService(ctx)
			if err != nil {
				return err
			}
			defer d.close()

			user, err := d.svc.CreateUser(ctx, habit.StartInput{
				Email:        email,
				TemplateID:   templateID,
				CustomName:   customName,
				ReminderTime: reminderTime,
			}, time.Now())
			if errors.Is(err, habit.ErrUserExists) {
				return fmt.Errorf("you already have an account; use `solo next` to start another habit")
			}
			if err != nil {
				return err
			}

			h := user.ActiveHabit
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSparkle, "Welcome to Solo"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Habit", fmt.Sprintf("%s %s", h.Emoji, h.Name)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("First task", h.CurrentLevelData().Task))
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Check in once a day with `solo checkin`. That's the whole game."))
			return nil
		},
	}

	cmd.Flags().StringVarP(&customName, "name", "n", "", "Custom habit name (instead of a template)")
	cmd.Flags().StringVarP(&reminderTime, "reminder", "r", "", "Daily reminder time, HH:MM (default 08:00)")

	return cmd
}
