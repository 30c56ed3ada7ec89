// Package workflow implements the per-patient decision state machine.
//
// The graph has four stages and no cycles:
//
//	check_schedule -> decide_action -> notify_staff (overdue)
//	                                -> reschedule   (ok)
//
// Every stage is a pure function over the workflow state, so a run is a pure
// function of (patient, policy, evaluation time). Alert delivery is the
// caller's concern; the engine only produces the outcome.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/models"
	"github.com/dwellwatch/dwellwatch/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Engine struct {
	logger *slog.Logger
	tracer trace.Tracer
}

func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logger.With("module", "workflow_engine"),
	}
}

// WithTracer returns a copy of the engine that records a span per run.
func (e *Engine) WithTracer(tracer trace.Tracer) *Engine {
	return &Engine{logger: e.logger, tracer: tracer}
}

// Run evaluates a single patient record against the policy at evaluatedAt and
// returns the terminal outcome. It fails with ErrInvalidTimestamp when the
// insertion timestamp is missing or in the future; that failure belongs to
// this patient only.
func (e *Engine) Run(ctx context.Context, patient models.PatientRecord, policy models.Policy, evaluatedAt time.Time) (models.Outcome, error) {
	logger := e.logger.With("patient_id", patient.ID)

	var span trace.Span
	if e.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "workflow.run",
			attribute.String(otelhelper.PatientIDKey, patient.ID),
		)
		defer span.End()
	}

	state := models.WorkflowState{
		Patient:     patient,
		EvaluatedAt: evaluatedAt,
		Stage:       models.StageCheckSchedule,
	}

	for {
		logger.DebugContext(ctx, "Entering workflow stage", "stage", state.Stage)

		switch state.Stage {
		case models.StageCheckSchedule:
			next, err := checkSchedule(state)
			if err != nil {
				if span != nil {
					otelhelper.SetError(span, err)
				}

				logger.WarnContext(ctx, "Patient record cannot be evaluated", "error", err)

				return models.Outcome{}, err
			}

			state = next

		case models.StageDecideAction:
			state = decideAction(state, policy)

		case models.StageNotifyStaff:
			state = notifyStaff(state, policy)

			logger.InfoContext(ctx, "Catheter change overdue, alert produced",
				"elapsed", state.Elapsed,
				"overdue_by", state.Alert.OverdueBy,
			)

			return models.Outcome{
				PatientID: patient.ID,
				Status:    models.StatusNotified,
				Elapsed:   state.Elapsed,
				Alert:     state.Alert,
			}, nil

		case models.StageReschedule:
			if state.Approaching {
				logger.WarnContext(ctx, "Catheter change approaching threshold",
					"elapsed", state.Elapsed,
					"threshold", policy.Threshold,
				)
			} else {
				logger.DebugContext(ctx, "Catheter within threshold, rechecking next run", "elapsed", state.Elapsed)
			}

			return models.Outcome{
				PatientID:   patient.ID,
				Status:      models.StatusOK,
				Elapsed:     state.Elapsed,
				Approaching: state.Approaching,
			}, nil

		default:
			return models.Outcome{}, fmt.Errorf("stage %q: %w", state.Stage, ErrUnknownStage)
		}
	}
}

// checkSchedule computes the elapsed dwell time. Elapsed must be non-negative:
// a zero or future insertion timestamp fails the record.
func checkSchedule(state models.WorkflowState) (models.WorkflowState, error) {
	if state.Patient.InsertedAt.IsZero() {
		return state, fmt.Errorf("patient %s: missing insertion timestamp: %w", state.Patient.ID, ErrInvalidTimestamp)
	}

	elapsed := state.EvaluatedAt.Sub(state.Patient.InsertedAt)
	if elapsed < 0 {
		return state, fmt.Errorf("patient %s: insertion timestamp is in the future: %w", state.Patient.ID, ErrInvalidTimestamp)
	}

	state.Elapsed = elapsed
	state.Stage = models.StageDecideAction

	return state, nil
}

// decideAction classifies the elapsed duration. The boundary is inclusive on
// the overdue side: elapsed equal to the threshold counts as overdue.
func decideAction(state models.WorkflowState, policy models.Policy) models.WorkflowState {
	if state.Elapsed >= policy.Threshold {
		state.Decision = models.DecisionOverdue
		state.Stage = models.StageNotifyStaff

		return state
	}

	state.Decision = models.DecisionOK
	state.Approaching = state.Elapsed >= policy.Threshold-policy.WarnWindow
	state.Stage = models.StageReschedule

	return state
}

// notifyStaff is the terminal producing stage: it turns the overdue decision
// into the alert event the sinks will deliver.
func notifyStaff(state models.WorkflowState, policy models.Policy) models.WorkflowState {
	state.Alert = &models.AlertEvent{
		PatientID: state.Patient.ID,
		Elapsed:   state.Elapsed,
		OverdueBy: state.Elapsed - policy.Threshold,
		Threshold: policy.Threshold,
		Reason:    fmt.Sprintf("catheter change overdue: %s since insertion exceeds the %s protocol interval", state.Elapsed, policy.Threshold),
		RaisedAt:  state.EvaluatedAt,
	}

	return state
}
