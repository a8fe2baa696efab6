package root

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/upperspacecase/habitspace/internal/ui"
)

func newWallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wall",
		Short: "Browse the community habit-ideas wall",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := openService(ctx)
			if err != nil {
				return err
			}
			defer d.close()

			ideas, err := d.svc.ListIdeas(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconWall, "Habit Ideas Wall"))
			if len(ideas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(nothing here yet; post one with `solo wall post`)"))
				return nil
			}
			for _, i := range ideas {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
					ui.Gold.Render(fmt.Sprintf("▲%d", i.Votes)), i.Text,
					ui.Muted.Render(fmt.Sprintf("— %s, %s (%s)", i.Author, i.CreatedAt, i.ID)))
			}
			return nil
		},
	}

	cmd.AddCommand(newWallPostCmd(), newWallVoteCmd())
	return cmd
}

func newWallPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <text>",
		Short: "Post a habit idea",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("idea text is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := openService(ctx)
			if err != nil {
				return err
			}
			defer d.close()

			idea, err := d.svc.SubmitIdea(ctx, strings.Join(args, " "), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Posted: %s\n", ui.Good.Render(ui.IconDone), idea.Text)
			return nil
		},
	}
}

func newWallVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <id>",
		Short: "Upvote a habit idea",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("idea id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := openService(ctx)
			if err != nil {
				return err
			}
			defer d.close()

			idea, err := d.svc.VoteIdea(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s now at %s\n", ui.Good.Render("▲ Voted."), idea.Text, ui.Gold.Render(fmt.Sprintf("%d", idea.Votes)))
			return nil
		},
	}
}
