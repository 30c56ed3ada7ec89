// Package main runs the watchdog on a cron schedule.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dwellwatch/dwellwatch/pkg/cmd"
	"github.com/dwellwatch/dwellwatch/pkg/log"
	"github.com/dwellwatch/dwellwatch/pkg/otelhelper"
	"github.com/dwellwatch/dwellwatch/pkg/schedule"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/attribute"
)

func main() {
	command := &cli.Command{
		Name:                  "dwellwatch-scheduler",
		EnableShellCompletion: true,
		Usage:                 "Run the dwell-time watchdog periodically",
		Flags: append(cmd.WatchdogFlags(),
			&cli.StringFlag{
				Name:    "cron",
				Usage:   "Cron expression for evaluation runs",
				Value:   schedule.DefaultCronExpr,
				Sources: cli.EnvVars("WATCHDOG_CRON"),
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("dwellwatch-scheduler")
			logger.InfoContext(ctx, "Initializing dwell-time watchdog scheduler")

			r, err := cmd.BuildRunner(command, logger)
			if err != nil {
				return err
			}

			if command.Bool("tracing") {
				tracerProvider, err := otelhelper.InitTracer(ctx, "dwellwatch-scheduler")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}
				defer func() {
					if err := tracerProvider.Shutdown(ctx); err != nil {
						slog.Error("Failed to shutdown tracer provider", "error", err)
					}
				}()

				r = r.WithTracer(tracerProvider.Tracer("dwellwatch-scheduler"),
					attribute.String(otelhelper.SourceTypeKey, command.String("source")),
					attribute.String(otelhelper.SinkTypeKey, command.String("sink")),
				)
			}

			scheduler, err := schedule.NewScheduler(r, command.String("cron"), logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return scheduler.Start(ctx)
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
