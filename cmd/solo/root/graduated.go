package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upperspacecase/habitspace/internal/ui"
)

func newGraduatedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graduated",
		Short: "Show your shelf of completed habits",
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

			user, err := d.svc.GetUser(ctx, email)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconStack, "Graduated Habits"))
			if len(user.GraduatedHabits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(empty shelf, keep climbing)"))
				return nil
			}
			for _, g := range user.GraduatedHabits {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s %s\n",
					ui.IconGrad, g.Emoji, ui.Good.Render(g.Name),
					ui.Muted.Render(fmt.Sprintf("(%d days, finished %s)", g.TotalDays, g.CompletedAt)))
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.Muted.Render("Final level: "+g.FinalLevel))
			}
			return nil
		},
	}

	return cmd
}
