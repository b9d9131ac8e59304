package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootOptions are the flags shared by every snapshot command.
type rootOptions struct {
	file   string
	locale string
	today  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "maint",
		Short:         "Workshop maintenance tracker",
		Long:          "maint reads a YAML snapshot of workshops and maintenance history, reports what is due and exports the history.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "workshops.yaml", "path to the YAML snapshot")
	cmd.PersistentFlags().StringVar(&opts.locale, "locale", "en", "label locale (en or vi)")
	cmd.PersistentFlags().StringVar(&opts.today, "today", "", "evaluate as of this date (YYYY-MM-DD), defaults to the current date")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newNotificationsCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newCompleteCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "maint %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
