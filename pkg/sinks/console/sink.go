// Package console renders alert events as plain lines on a writer. It is the
// reference sink: one line per overdue patient, never an error for a single
// malformed event.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dwellwatch/dwellwatch/pkg/models"
)

type Sink struct {
	out    io.Writer
	logger *slog.Logger
}

func NewSink(out io.Writer, logger *slog.Logger) *Sink {
	if out == nil {
		out = os.Stdout
	}

	return &Sink{
		out:    out,
		logger: logger.With("module", "console_sink"),
	}
}

func (s *Sink) Emit(_ context.Context, event models.AlertEvent) error {
	if event.PatientID == "" {
		s.logger.Warn("Dropping alert event without patient id")

		return nil
	}

	_, err := fmt.Fprintf(s.out, "ALERT: %s overdue by %s\n", event.PatientID, event.OverdueBy)
	if err != nil {
		return fmt.Errorf("failed to write alert line: %w", err)
	}

	return nil
}

func (s *Sink) Close() error {
	return nil
}
