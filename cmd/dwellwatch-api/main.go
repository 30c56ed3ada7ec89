package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dwellwatch/dwellwatch/pkg/cmd"
	"github.com/dwellwatch/dwellwatch/pkg/log"
	"github.com/dwellwatch/dwellwatch/pkg/otelhelper"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/attribute"
)

func main() {
	command := &cli.Command{
		Name:                  "dwellwatch-api",
		EnableShellCompletion: true,
		Usage:                 "Serve the dwell-time watchdog over HTTP",
		Flags: append(cmd.WatchdogFlags(),
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on",
				Value:   9091,
				Sources: cli.EnvVars("PORT"),
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("dwellwatch-api")
			logger.InfoContext(ctx, "Initializing dwell-time watchdog API")

			r, err := cmd.BuildRunner(command, logger)
			if err != nil {
				return err
			}

			if command.Bool("tracing") {
				tracerProvider, err := otelhelper.InitTracer(ctx, "dwellwatch-api")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}
				defer func() {
					if err := tracerProvider.Shutdown(ctx); err != nil {
						slog.Error("Failed to shutdown tracer provider", "error", err)
					}
				}()

				r = r.WithTracer(tracerProvider.Tracer("dwellwatch-api"),
					attribute.String(otelhelper.SourceTypeKey, command.String("source")),
					attribute.String(otelhelper.SinkTypeKey, command.String("sink")),
				)
			}

			policy, err := cmd.Policy(command)
			if err != nil {
				return err
			}

			api := NewAPI(logger, r, policy)

			return api.Start(command.Int("port"))
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
