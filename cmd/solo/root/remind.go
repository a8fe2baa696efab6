package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/upperspacecase/habitspace/internal/reminder"
	"github.com/upperspacecase/habitspace/internal/ui"
)

func newRemindCmd() *cobra.Command {
	var hour int

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send daily reminder emails (cron entrypoint)",
		Long: `Send the daily task reminder to every user with an active habit.

Meant to run hourly from cron. By default only users whose reminder time
matches the current hour receive mail; pass --hour to override, or
--hour=-1 to send to everyone regardless of preference.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := openService(ctx)
			if err != nil {
				return err
			}
			defer d.close()

			now := time.Now()
			h := hour
			if !cmd.Flags().Changed("hour") {
				h = now.UTC().Hour()
			}

			sender := reminder.NewSender(d.svc, d.mail, d.log)
			sent, err := sender.Run(ctx, now, h)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Sent %d reminder(s).\n", ui.Good.Render(ui.IconBell), sent)
			return nil
		},
	}

	cmd.Flags().IntVar(&hour, "hour", 0, "Reminder hour filter: 0-23, or -1 for every user (unset: the current UTC hour)")

	return cmd
}
