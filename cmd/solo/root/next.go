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

func newNextCmd() *cobra.Command {
	var customName string

	cmd := &cobra.Command{
		Use:   "next [template-id]",
		Short: "Start your next habit after graduating",
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

			user, err := d.svc.StartNextHabit(ctx, habit.StartInput{
				Email:      email,
				TemplateID: templateID,
				CustomName: customName,
			}, time.Now())
			if errors.Is(err, habit.ErrHabitAlreadyActive) {
				return errors.New("you already have an active habit; finish it first")
			}
			if err != nil {
				return err
			}

			h := user.ActiveHabit
			fmt.Fprintf(cmd.OutOrStdout(), "%s Next climb: %s %s\n", ui.Good.Render(ui.IconTarget), h.Emoji, ui.H2.Render(h.Name))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("First task", h.CurrentLevelData().Task))
			return nil
		},
	}

	cmd.Flags().StringVarP(&customName, "name", "n", "", "Custom habit name (instead of a template)")

	return cmd
}
