package cmd

import (
	"context"
	"log/slog"
	"testing"

	"github.com/dwellwatch/dwellwatch/pkg/events"
	"github.com/dwellwatch/dwellwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventBus_GoChannel(t *testing.T) {
	bus := NewEventBus("gochannel", slog.Default())
	require.NotNil(t, bus)

	assert.NotEmpty(t, bus.GenerateID())

	// Publishing without subscribers must not fail on the in-process bus.
	completed := events.RunCompleted{
		BaseEvent: events.BaseEvent{
			ID:    bus.GenerateID(),
			Type:  events.RunCompletedEvent,
			RunID: "run-test",
		},
		Summary: models.RunSummary{RunID: "run-test"},
	}
	require.NoError(t, bus.Publish(context.Background(), "run-test", completed))

	require.NoError(t, bus.Close())
}

func TestNewEventBus_UnsupportedProvider(t *testing.T) {
	assert.Panics(t, func() {
		NewEventBus("rabbitmq", slog.Default())
	})
}
