package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/upperspacecase/habitspace/internal/tui"
)

func newDashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the TUI dashboard",
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

			return tui.RunDashboard(ctx, d.svc, email, cmd.OutOrStdout())
		},
	}

	return cmd
}
