// Package runner drives one batch evaluation: fetch the patient collection,
// run the decision workflow per record, and forward alerts to the sinks.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/eventbus"
	"github.com/dwellwatch/dwellwatch/pkg/events"
	"github.com/dwellwatch/dwellwatch/pkg/models"
	"github.com/dwellwatch/dwellwatch/pkg/otelhelper"
	"github.com/dwellwatch/dwellwatch/pkg/protocol"
	"github.com/dwellwatch/dwellwatch/pkg/throttle"
	"github.com/dwellwatch/dwellwatch/pkg/workflow"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Runner struct {
	source    protocol.PatientSource
	sinks     []protocol.AlertSink
	engine    *workflow.Engine
	policy    models.Policy
	throttle  throttle.Throttle
	bus       eventbus.EventBus
	logger    *slog.Logger
	tracer    trace.Tracer
	spanAttrs []attribute.KeyValue
	now       func() time.Time
}

func NewRunner(
	source protocol.PatientSource,
	sinks []protocol.AlertSink,
	engine *workflow.Engine,
	policy models.Policy,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		source: source,
		sinks:  sinks,
		engine: engine,
		policy: policy,
		logger: logger.With("module", "runner"),
		now:    time.Now,
	}
}

// WithThrottle enables alert suppression. A suppressed alert still counts as
// overdue in the summary but is not delivered.
func (r *Runner) WithThrottle(t throttle.Throttle) *Runner {
	r.throttle = t

	return r
}

// WithEventBus enables the run-completed notification.
func (r *Runner) WithEventBus(bus eventbus.EventBus) *Runner {
	r.bus = bus

	return r
}

// WithTracer enables a span per run, with a child span per patient. The
// attrs describe the deployment (source and sink types) on every run span.
func (r *Runner) WithTracer(tracer trace.Tracer, attrs ...attribute.KeyValue) *Runner {
	r.tracer = tracer
	r.spanAttrs = attrs
	r.engine = r.engine.WithTracer(tracer)

	return r
}

// WithNow overrides the clock, for tests.
func (r *Runner) WithNow(now func() time.Time) *Runner {
	r.now = now

	return r
}

// Run evaluates the whole patient collection once against the configured
// policy. Per-patient failures are isolated into errored outcomes; only a
// source fetch failure is fatal. Outcomes keep the source order, and alerts
// are delivered in that order.
func (r *Runner) Run(ctx context.Context) (models.RunSummary, []models.Outcome, error) {
	return r.RunWith(ctx, r.policy)
}

// RunWith evaluates the collection against an explicit policy, for callers
// that override the threshold per run.
func (r *Runner) RunWith(ctx context.Context, policy models.Policy) (models.RunSummary, []models.Outcome, error) {
	if err := policy.Validate(); err != nil {
		return models.RunSummary{}, nil, err
	}

	runID := "run-" + uuid.New().String()[:8]
	startedAt := r.now().UTC()
	logger := r.logger.With("run_id", runID)

	var span trace.Span
	if r.tracer != nil {
		attrs := append([]attribute.KeyValue{attribute.String(otelhelper.RunIDKey, runID)}, r.spanAttrs...)

		ctx, span = otelhelper.StartSpan(ctx, r.tracer, "runner.run", attrs...)
		defer span.End()
	}

	logger.InfoContext(ctx, "Starting evaluation run", "threshold", policy.Threshold)

	patients, err := r.source.FetchPatients(ctx)
	if err != nil {
		if !protocol.IsSourceUnavailable(err) {
			err = fmt.Errorf("%w: %w", protocol.ErrSourceUnavailable, err)
		}

		if span != nil {
			otelhelper.SetError(span, err)
		}

		logger.ErrorContext(ctx, "Failed to fetch patients, aborting run", "error", err)

		return models.RunSummary{RunID: runID, StartedAt: startedAt}, nil, err
	}

	evaluatedAt := startedAt
	summary := models.RunSummary{RunID: runID, StartedAt: startedAt}
	outcomes := make([]models.Outcome, 0, len(patients))

	for _, patient := range patients {
		outcome, err := r.engine.Run(ctx, patient, policy, evaluatedAt)
		if err != nil {
			// Per-patient failure: record and keep going.
			outcome = models.Outcome{
				PatientID: patient.ID,
				Status:    models.StatusErrored,
				Error:     err.Error(),
			}
			summary.Errored++
			outcomes = append(outcomes, outcome)

			continue
		}

		summary.Evaluated++

		switch outcome.Status {
		case models.StatusNotified:
			summary.Overdue++
			outcome.Alert.RunID = runID
			r.deliver(ctx, logger, *outcome.Alert)
		case models.StatusOK:
			if outcome.Approaching {
				summary.Approaching++
			}
		}

		outcomes = append(outcomes, outcome)
	}

	summary.FinishedAt = r.now().UTC()

	logger.InfoContext(ctx, "Evaluation run finished",
		"evaluated", summary.Evaluated,
		"overdue", summary.Overdue,
		"approaching", summary.Approaching,
		"errored", summary.Errored,
	)

	r.publishRunCompleted(ctx, logger, summary)

	return summary, outcomes, nil
}

// deliver forwards one alert to every sink, best effort. Throttled alerts
// are skipped entirely.
func (r *Runner) deliver(ctx context.Context, logger *slog.Logger, alert models.AlertEvent) {
	if r.throttle != nil {
		allowed, err := r.throttle.Allow(ctx, alert.PatientID)
		if err != nil {
			// Fail open: a broken throttle must not swallow alerts.
			logger.WarnContext(ctx, "Throttle check failed, delivering anyway", "patient_id", alert.PatientID, "error", err)
		} else if !allowed {
			logger.InfoContext(ctx, "Alert suppressed by throttle", "patient_id", alert.PatientID)

			return
		}
	}

	for _, sink := range r.sinks {
		if err := sink.Emit(ctx, alert); err != nil {
			logger.ErrorContext(ctx, "Alert delivery failed", "patient_id", alert.PatientID, "error", err)
		}
	}
}

func (r *Runner) publishRunCompleted(ctx context.Context, logger *slog.Logger, summary models.RunSummary) {
	if r.bus == nil {
		return
	}

	completed := events.RunCompleted{
		BaseEvent: events.BaseEvent{
			ID:        r.bus.GenerateID(),
			Type:      events.RunCompletedEvent,
			Timestamp: summary.FinishedAt,
			RunID:     summary.RunID,
		},
		Summary: summary,
	}

	if err := r.bus.Publish(ctx, summary.RunID, completed); err != nil {
		logger.WarnContext(ctx, "Failed to publish run completion", "error", err)
	}
}
