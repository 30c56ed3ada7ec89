package models

import "time"

// OutcomeStatus is the terminal status of one workflow run for one patient.
type OutcomeStatus string

const (
	StatusNotified OutcomeStatus = "notified" // overdue, alert produced
	StatusOK       OutcomeStatus = "ok"       // within threshold, nothing due
	StatusErrored  OutcomeStatus = "errored"  // record could not be evaluated
)

// Outcome is the result of running the decision workflow for a single patient.
type Outcome struct {
	PatientID   string        `json:"patient_id"`
	Status      OutcomeStatus `json:"status"`
	Elapsed     time.Duration `json:"elapsed,omitempty"`
	Approaching bool          `json:"approaching,omitempty"`
	Alert       *AlertEvent   `json:"alert,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// RunSummary aggregates one batch run over the patient collection.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	Evaluated   int       `json:"evaluated"`
	Overdue     int       `json:"overdue"`
	Approaching int       `json:"approaching"`
	Errored     int       `json:"errored"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}
