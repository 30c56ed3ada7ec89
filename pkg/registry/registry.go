// Package registry holds the source and sink factories and creates instances
// from configuration.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dwellwatch/dwellwatch/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

type Registry struct {
	logger          *slog.Logger
	sourceFactories map[string]protocol.PatientSourceFactory
	sinkFactories   map[string]protocol.AlertSinkFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:          log,
		sourceFactories: make(map[string]protocol.PatientSourceFactory),
		sinkFactories:   make(map[string]protocol.AlertSinkFactory),
	}
}

func (r *Registry) RegisterSource(factory protocol.PatientSourceFactory) {
	r.sourceFactories[factory.ID()] = factory
}

func (r *Registry) RegisterSink(factory protocol.AlertSinkFactory) {
	r.sinkFactories[factory.ID()] = factory
}

// CreateSource builds a patient source of the given type. The config map is
// validated against the factory's JSON schema first.
func (r *Registry) CreateSource(sourceType string, config map[string]any) (protocol.PatientSource, error) {
	factory, ok := r.sourceFactories[sourceType]
	if !ok {
		return nil, fmt.Errorf("source type %q not registered (registered: %s)", sourceType, strings.Join(r.SourceIDs(), ", "))
	}

	if err := validateConfig(factory.Schema(), config); err != nil {
		return nil, fmt.Errorf("source %q configuration: %w", sourceType, err)
	}

	return factory.Create(config, r.logger)
}

// CreateSink builds an alert sink of the given type, validating config first.
func (r *Registry) CreateSink(sinkType string, config map[string]any) (protocol.AlertSink, error) {
	factory, ok := r.sinkFactories[sinkType]
	if !ok {
		return nil, fmt.Errorf("sink type %q not registered (registered: %s)", sinkType, strings.Join(r.SinkIDs(), ", "))
	}

	if err := validateConfig(factory.Schema(), config); err != nil {
		return nil, fmt.Errorf("sink %q configuration: %w", sinkType, err)
	}

	return factory.Create(config, r.logger)
}

func (r *Registry) SourceIDs() []string {
	ids := make([]string, 0, len(r.sourceFactories))
	for id := range r.sourceFactories {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func (r *Registry) SinkIDs() []string {
	ids := make([]string, 0, len(r.sinkFactories))
	for id := range r.sinkFactories {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// validateConfig checks a config map against a factory's JSON schema.
func validateConfig(schema map[string]any, config map[string]any) error {
	if schema == nil {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var errs []string
		for _, resultError := range result.Errors() {
			errs = append(errs, resultError.String())
		}

		return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
