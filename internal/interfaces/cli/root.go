package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "unknown"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "riad",
		Short:         "Riad di Siena booking intake and pre-arrival reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewPreArrivalCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("riad %s (commit=%s)\n", Version, CommitSHA)
		},
	}
}
