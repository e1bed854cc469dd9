package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"riad/internal/app"
	"riad/internal/config"
)

// NewPreArrivalCmd runs the reminder job once and prints the report, for
// cron setups that call the binary instead of the HTTP trigger.
func NewPreArrivalCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "pre-arrival",
		Short: "Send today's pre-arrival reminders once and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if days < 0 {
				return fmt.Errorf("--days must not be negative, got %d", days)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("days") {
				cfg.PreArrivalDays = days
			}

			deps, closeDeps, err := app.NewDeps(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDeps()

			a, err := app.NewApp(watermillLogger(), cfg, deps)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.PreArrival.Run(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().IntVar(&days, "days", 5, "days ahead of today to look for check-ins")
	return cmd
}
