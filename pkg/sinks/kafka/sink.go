// Package kafka publishes alert events onto the event bus, for messaging,
// EHR-write, or paging integrations consuming downstream.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dwellwatch/dwellwatch/pkg/eventbus"
	"github.com/dwellwatch/dwellwatch/pkg/events"
	"github.com/dwellwatch/dwellwatch/pkg/models"
)

type Sink struct {
	bus    eventbus.EventBus
	logger *slog.Logger
}

func NewSink(bus eventbus.EventBus, logger *slog.Logger) *Sink {
	return &Sink{
		bus:    bus,
		logger: logger.With("module", "kafka_sink"),
	}
}

func (s *Sink) Emit(ctx context.Context, event models.AlertEvent) error {
	raised := events.AlertRaised{
		BaseEvent: events.BaseEvent{
			ID:        s.bus.GenerateID(),
			Type:      events.AlertRaisedEvent,
			Timestamp: event.RaisedAt,
			RunID:     event.RunID,
		},
		Alert: event,
	}

	if err := s.bus.Publish(ctx, event.PatientID, raised); err != nil {
		return fmt.Errorf("failed to publish alert event: %w", err)
	}

	s.logger.Debug("Published alert event", "patient_id", event.PatientID, "event_id", raised.ID)

	return nil
}

func (s *Sink) Close() error {
	return s.bus.Close()
}
