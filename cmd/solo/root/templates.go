package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upperspacecase/habitspace/internal/habit"
	"github.com/upperspacecase/habitspace/internal/ui"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the habit catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTarget, "Habit Catalog"))
			for _, t := range habit.Templates() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", t.Emoji, ui.H2.Render(t.Name), ui.Muted.Render("("+t.ID+")"))
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.Muted.Render(t.Description))
				for _, l := range t.Levels {
					fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s\n", l.Level, l.Task)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Or go custom: solo start --name \"Your habit\""))
			return nil
		},
	}

	return cmd
}
