// Package protocol defines the interfaces between the watchdog core and its
// pluggable collaborators: patient data sources and alert sinks.
package protocol

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dwellwatch/dwellwatch/pkg/models"
)

// ErrSourceUnavailable marks a batch-level fetch failure: no patient can be
// evaluated, so the run terminates with a non-zero status.
var ErrSourceUnavailable = errors.New("patient data source unavailable")

// IsSourceUnavailable reports whether err is a batch-level source failure.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// PatientSource supplies the ordered collection of patient records to
// evaluate. Implementations are interchangeable: a static fixture list and a
// live clinical-data server client behave identically behind this interface.
type PatientSource interface {
	// FetchPatients returns the records in a stable order. An empty slice is
	// a valid result (nothing to evaluate). A fetch failure means no patient
	// can be evaluated and is fatal to the run.
	FetchPatients(ctx context.Context) ([]models.PatientRecord, error)
}

// PatientSourceFactory creates PatientSource instances from configuration.
type PatientSourceFactory interface {
	// Create instantiates a source with the given configuration. The config
	// map is validated against Schema before this is called.
	Create(config map[string]any, logger *slog.Logger) (PatientSource, error)

	// ID returns the type identifier used in configuration, e.g. "fixture".
	ID() string

	// Schema returns a JSON Schema describing the configuration structure.
	Schema() map[string]any
}
