package fhir

import (
	"log/slog"
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/protocol"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (*Factory) ID() string {
	return "fhir"
}

func (f *Factory) Create(config map[string]any, logger *slog.Logger) (protocol.PatientSource, error) {
	if config == nil {
		config = map[string]any{}
	}

	baseURL, _ := config["base_url"].(string)

	var timeout time.Duration
	if seconds, ok := config["timeout_seconds"].(float64); ok {
		timeout = time.Duration(seconds * float64(time.Second))
	}

	retry := RetryConfig{}
	if attempts, ok := config["retry_attempts"].(float64); ok {
		retry.Attempts = int(attempts)
	}

	if delay, ok := config["retry_delay_seconds"].(float64); ok {
		retry.Delay = time.Duration(delay * float64(time.Second))
	}

	snomedOnly, _ := config["snomed_only"].(bool)

	client := NewClient(baseURL, timeout, retry, logger)

	return NewSource(client, snomedOnly, logger), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"base_url": map[string]any{
				"type":        "string",
				"description": "FHIR R4 base URL. Defaults to the public HAPI test server.",
			},
			"timeout_seconds": map[string]any{
				"type":        "number",
				"description": "Per-request timeout in seconds.",
				"default":     30,
			},
			"retry_attempts": map[string]any{
				"type":        "number",
				"description": "Retry attempts for transport errors and 5xx responses.",
				"default":     3,
			},
			"retry_delay_seconds": map[string]any{
				"type":        "number",
				"description": "Fixed delay between retries in seconds.",
				"default":     2,
			},
			"snomed_only": map[string]any{
				"type":        "boolean",
				"description": "Only match devices carrying the SNOMED urinary catheter coding (303620002).",
				"default":     false,
			},
		},
	}
}
