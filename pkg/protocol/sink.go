package protocol

import (
	"context"
	"log/slog"

	"github.com/dwellwatch/dwellwatch/pkg/models"
)

// AlertSink consumes alert events produced on the overdue path. Delivery is
// best effort: a sink error is logged by the caller and never aborts the
// batch, and a sink must not fail on a single malformed event.
type AlertSink interface {
	Emit(ctx context.Context, event models.AlertEvent) error
	Close() error
}

// AlertSinkFactory creates AlertSink instances from configuration.
type AlertSinkFactory interface {
	Create(config map[string]any, logger *slog.Logger) (AlertSink, error)
	ID() string
	Schema() map[string]any
}
