package kafka

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	kafkachannel "github.com/dwellwatch/dwellwatch/pkg/channels/kafka"
	"github.com/dwellwatch/dwellwatch/pkg/eventbus"
	"github.com/dwellwatch/dwellwatch/pkg/protocol"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (*Factory) ID() string {
	return "kafka"
}

func (f *Factory) Create(_ map[string]any, logger *slog.Logger) (protocol.AlertSink, error) {
	publisher, err := kafkachannel.CreatePublisher(watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return NewSink(eventbus.NewWatermillEventBus(publisher), logger), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"description": "Publishes alerts to the dwellwatch.alerts Kafka topic. " +
			"Brokers come from the KAFKA_BROKERS environment variable.",
	}
}
