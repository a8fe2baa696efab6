package root

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upperspacecase/habitspace/internal/ui"
)

const Version = "0.1.0"

var emailFlag string

var rootCmd = &cobra.Command{
	Use:           "solo",
	Short:         "Solo — build one habit at a time",
	Long:          "Solo is a habit progression tracker: pick one habit, check in daily, level up through five stages, graduate, repeat.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&emailFlag, "email", "e", "", "Your email (or set SOLO_EMAIL)")

	rootCmd.AddCommand(
		newStartCmd(),
		newCheckinCmd(),
		newStatusCmd(),
		newNextCmd(),
		newGraduatedCmd(),
		newTemplatesCmd(),
		newWallCmd(),
		newRemindCmd(),
		newServeCmd(),
		newDashCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

// requireEmail resolves the acting user: --email flag first, SOLO_EMAIL
// second.
func requireEmail() (string, error) {
	if emailFlag != "" {
		return emailFlag, nil
	}
	if e := os.Getenv("SOLO_EMAIL"); e != "" {
		return e, nil
	}
	return "", errors.New("email is required (use --email or set SOLO_EMAIL)")
}
