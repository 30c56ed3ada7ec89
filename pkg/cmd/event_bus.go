package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dwellwatch/dwellwatch/pkg/channels/gochannel"
	"github.com/dwellwatch/dwellwatch/pkg/channels/kafka"
	"github.com/dwellwatch/dwellwatch/pkg/eventbus"
)

func NewEventBus(provider string, logger *slog.Logger) eventbus.EventBus {
	switch provider {
	case "kafka":
		pub, err := kafka.CreatePublisher(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka publisher: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub)
	case "gochannel":
		// In-process bus for local development without a broker.
		pub, _, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create gochannel publisher: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub)
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}
