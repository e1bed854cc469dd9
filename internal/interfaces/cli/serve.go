package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"riad/internal/app"
	"riad/internal/config"
	"riad/internal/observability"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the event router",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			shutdownTracing, err := observability.ConfigureTraceProvider(ctx, cfg.OTLPEndpoint, Version)
			if err != nil {
				return err
			}
			defer func() {
				_ = shutdownTracing(context.Background())
			}()

			deps, closeDeps, err := app.NewDeps(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDeps()

			a, err := app.NewApp(watermillLogger(), cfg, deps)
			if err != nil {
				return err
			}

			return a.Run(ctx)
		},
	}
}

func watermillLogger() watermill.LoggerAdapter {
	return log.NewWatermill(logrus.NewEntry(logrus.StandardLogger()))
}
