// Package events defines the event types published on the alert bus.
package events

import (
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/models"
)

type EventType string

// Kafka topics.
const AlertTopic = "dwellwatch.alerts" // alert events for downstream consumers
const RunTopic = "dwellwatch.runs"     // run lifecycle events

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	AlertRaisedEvent  EventType = "alert.raised"
	RunCompletedEvent EventType = "run.completed"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id,omitempty"`
}

// AlertRaised is published once per delivered alert.
type AlertRaised struct {
	BaseEvent

	Alert models.AlertEvent `json:"alert"`
}

func (a AlertRaised) GetType() EventType {
	return AlertRaisedEvent
}

// Topic returns the Kafka topic this event belongs on.
func (a AlertRaised) Topic() string {
	return AlertTopic
}

// RunCompleted is published once per finished batch run.
type RunCompleted struct {
	BaseEvent

	Summary models.RunSummary `json:"summary"`
}

func (r RunCompleted) GetType() EventType {
	return RunCompletedEvent
}

func (r RunCompleted) Topic() string {
	return RunTopic
}
