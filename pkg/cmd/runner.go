package cmd

import (
	"log/slog"

	"github.com/dwellwatch/dwellwatch/pkg/models"
	"github.com/dwellwatch/dwellwatch/pkg/runner"
	"github.com/dwellwatch/dwellwatch/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

// WatchdogFlags is the flag set shared by every watchdog binary.
func WatchdogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Usage:   "Patient source type (fixture, fhir)",
			Value:   "fixture",
			Sources: cli.EnvVars("PATIENT_SOURCE"),
		},
		&cli.StringFlag{
			Name:    "fixtures-path",
			Usage:   "Path to a JSON fixtures file for the fixture source",
			Value:   "",
			Sources: cli.EnvVars("FIXTURES_PATH"),
		},
		&cli.StringFlag{
			Name:    "fhir-base-url",
			Usage:   "FHIR R4 base URL for the fhir source",
			Value:   "",
			Sources: cli.EnvVars("FHIR_BASE_URL"),
		},
		&cli.BoolFlag{
			Name:    "snomed-only",
			Usage:   "Only match devices carrying the SNOMED urinary catheter coding",
			Sources: cli.EnvVars("FHIR_SNOMED_ONLY"),
		},
		&cli.StringFlag{
			Name:    "sink",
			Usage:   "Alert sinks, comma separated (console, log, kafka)",
			Value:   "console",
			Sources: cli.EnvVars("ALERT_SINKS"),
		},
		&cli.DurationFlag{
			Name:    "threshold",
			Usage:   "Overdue threshold for catheter dwell time",
			Value:   models.DefaultThreshold,
			Sources: cli.EnvVars("DWELL_THRESHOLD"),
		},
		&cli.DurationFlag{
			Name:    "warn-window",
			Usage:   "Band below the threshold in which patients are flagged as approaching",
			Value:   models.DefaultWarnWindow,
			Sources: cli.EnvVars("DWELL_WARN_WINDOW"),
		},
		&cli.StringFlag{
			Name:    "throttle-url",
			Usage:   "Alert throttle backend (redis://... or empty for in-process)",
			Value:   "",
			Sources: cli.EnvVars("THROTTLE_URL"),
		},
		&cli.DurationFlag{
			Name:    "throttle-interval",
			Usage:   "Suppression window between repeat alerts for the same patient (0 disables throttling)",
			Value:   0,
			Sources: cli.EnvVars("THROTTLE_INTERVAL"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus for run notifications (kafka, gochannel, or empty to disable)",
			Value:   "",
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.BoolFlag{
			Name:    "tracing",
			Usage:   "Export OTLP traces for each run",
			Sources: cli.EnvVars("OTEL_TRACING_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}
}

// SourceConfig translates the source flags into the configuration map of the
// selected source type.
func SourceConfig(command *cli.Command) map[string]any {
	switch command.String("source") {
	case "fhir":
		config := map[string]any{
			"snomed_only": command.Bool("snomed-only"),
		}
		if baseURL := command.String("fhir-base-url"); baseURL != "" {
			config["base_url"] = baseURL
		}

		return config
	default:
		config := map[string]any{}
		if path := command.String("fixtures-path"); path != "" {
			config["path"] = path
		}

		return config
	}
}

// Policy builds and validates the policy from the flag values.
func Policy(command *cli.Command) (models.Policy, error) {
	policy := models.Policy{
		Threshold:  command.Duration("threshold"),
		WarnWindow: command.Duration("warn-window"),
	}

	return policy, policy.Validate()
}

// BuildRunner wires the full collaborator graph from the flag values.
func BuildRunner(command *cli.Command, logger *slog.Logger) (*runner.Runner, error) {
	policy, err := Policy(command)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry(logger)

	source, err := NewPatientSource(reg, command.String("source"), SourceConfig(command))
	if err != nil {
		return nil, err
	}

	sinks, err := NewAlertSinks(reg, command.String("sink"), nil)
	if err != nil {
		return nil, err
	}

	engine := workflow.NewEngine(logger)
	r := runner.NewRunner(source, sinks, engine, policy, logger)

	if interval := command.Duration("throttle-interval"); interval > 0 {
		t, err := NewThrottle(command.String("throttle-url"), interval)
		if err != nil {
			return nil, err
		}

		r = r.WithThrottle(t)
	}

	if provider := command.String("event-bus"); provider != "" {
		r = r.WithEventBus(NewEventBus(provider, logger))
	}

	return r, nil
}
