package fixture

import (
	"log/slog"

	"github.com/dwellwatch/dwellwatch/pkg/protocol"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (*Factory) ID() string {
	return "fixture"
}

// Create builds a fixture source. With a "path" it loads the fixtures file,
// otherwise it serves the built-in demo data set.
func (f *Factory) Create(config map[string]any, logger *slog.Logger) (protocol.PatientSource, error) {
	if config == nil {
		config = map[string]any{}
	}

	entries := DefaultEntries()

	if path, ok := config["path"].(string); ok && path != "" {
		loaded, err := LoadEntries(path)
		if err != nil {
			return nil, err
		}

		entries = loaded
	}

	return NewSource(entries, logger)
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to a JSON fixtures file: an array of {id, offset_hours, device_id} entries. Omit to use the built-in demo set.",
			},
		},
	}
}
