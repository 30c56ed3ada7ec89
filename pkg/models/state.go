package models

import "time"

// Stage identifies a node in the per-patient decision graph.
type Stage string

const (
	StageCheckSchedule Stage = "check_schedule" // initial: compute elapsed dwell time
	StageDecideAction  Stage = "decide_action"  // classify elapsed against the policy threshold
	StageNotifyStaff   Stage = "notify_staff"   // terminal: alert produced
	StageReschedule    Stage = "reschedule"     // terminal: nothing due, wait for the next run
)

// Decision is the classification produced by the decide_action stage.
type Decision string

const (
	DecisionOverdue Decision = "overdue"
	DecisionOK      Decision = "ok"
)

// WorkflowState is the transient record threaded through the decision stages.
// Exactly one exists per patient per run; it is discarded once the terminal
// stage has been consumed.
type WorkflowState struct {
	Patient     PatientRecord `json:"patient"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
	Elapsed     time.Duration `json:"elapsed"`
	Stage       Stage         `json:"stage"`
	Decision    Decision      `json:"decision,omitempty"`
	Approaching bool          `json:"approaching,omitempty"`
	Alert       *AlertEvent   `json:"alert,omitempty"`
}
