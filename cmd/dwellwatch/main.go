// Package main provides the one-shot watchdog run: load patients, evaluate
// every record, print one line per overdue patient plus a final summary.
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
		Name:                  "dwellwatch",
		EnableShellCompletion: true,
		Usage:                 "Evaluate catheter dwell times and alert on overdue changes",
		Flags:                 cmd.WatchdogFlags(),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("dwellwatch")
			logger.InfoContext(ctx, "Initializing dwell-time watchdog")

			r, err := cmd.BuildRunner(command, logger)
			if err != nil {
				return err
			}

			if command.Bool("tracing") {
				tracerProvider, err := otelhelper.InitTracer(ctx, "dwellwatch")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}
				defer func() {
					if err := tracerProvider.Shutdown(ctx); err != nil {
						slog.Error("Failed to shutdown tracer provider", "error", err)
					}
				}()

				r = r.WithTracer(tracerProvider.Tracer("dwellwatch"),
					attribute.String(otelhelper.SourceTypeKey, command.String("source")),
					attribute.String(otelhelper.SinkTypeKey, command.String("sink")),
				)
			}

			summary, _, err := r.Run(ctx)
			if err != nil {
				// Nothing could be evaluated. This is the only failure that
				// exits non-zero; alerts themselves are not an error.
				return err
			}

			fmt.Printf("evaluated=%d overdue=%d errored=%d\n", summary.Evaluated, summary.Overdue, summary.Errored)

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
