package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/protocol"
	"github.com/dwellwatch/dwellwatch/pkg/registry"
	"github.com/dwellwatch/dwellwatch/pkg/throttle"
)

// NewPatientSource builds the configured patient source from the registry.
func NewPatientSource(reg *registry.Registry, sourceType string, config map[string]any) (protocol.PatientSource, error) {
	source, err := reg.CreateSource(sourceType, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient source: %w", err)
	}

	return source, nil
}

// NewAlertSinks builds every sink named in the comma-separated list.
func NewAlertSinks(reg *registry.Registry, sinkList string, config map[string]any) ([]protocol.AlertSink, error) {
	var sinks []protocol.AlertSink

	for _, sinkType := range strings.Split(sinkList, ",") {
		sinkType = strings.TrimSpace(sinkType)
		if sinkType == "" {
			continue
		}

		sink, err := reg.CreateSink(sinkType, config)
		if err != nil {
			for _, created := range sinks {
				_ = created.Close()
			}

			return nil, fmt.Errorf("failed to create alert sink %q: %w", sinkType, err)
		}

		sinks = append(sinks, sink)
	}

	if len(sinks) == 0 {
		return nil, fmt.Errorf("no alert sinks configured (got %q)", sinkList)
	}

	return sinks, nil
}

// NewThrottle builds the alert throttle for the given URL; an empty URL
// selects the in-process implementation.
func NewThrottle(url string, interval time.Duration) (throttle.Throttle, error) {
	t, err := throttle.New(url, interval)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert throttle: %w", err)
	}

	return t, nil
}
