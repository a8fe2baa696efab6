package root

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/upperspacecase/habitspace/internal/reminder"
	"github.com/upperspacecase/habitspace/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := openService(ctx)
			if err != nil {
				return err
			}
			defer d.close()

			if addr == "" {
				addr = d.cfg.Addr
			}

			sender := reminder.NewSender(d.svc, d.mail, d.log)
			srv := server.New(d.svc, sender, d.cfg.CronAPIKey, d.log)
			if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from SOLO_ADDR)")

	return cmd
}
