// Package logsink delivers alert events through the structured logger, for
// deployments that ship logs to their paging pipeline.
package logsink

import (
	"context"
	"log/slog"

	"github.com/dwellwatch/dwellwatch/pkg/models"
	"github.com/dwellwatch/dwellwatch/pkg/protocol"
)

type Sink struct {
	logger *slog.Logger
}

func NewSink(logger *slog.Logger) *Sink {
	return &Sink{
		logger: logger.With("module", "log_sink"),
	}
}

func (s *Sink) Emit(ctx context.Context, event models.AlertEvent) error {
	s.logger.WarnContext(ctx, "Catheter change overdue",
		"patient_id", event.PatientID,
		"elapsed", event.Elapsed,
		"overdue_by", event.OverdueBy,
		"threshold", event.Threshold,
		"reason", event.Reason,
	)

	return nil
}

func (s *Sink) Close() error {
	return nil
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (*Factory) ID() string {
	return "log"
}

func (f *Factory) Create(_ map[string]any, logger *slog.Logger) (protocol.AlertSink, error) {
	return NewSink(logger), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
