package models

import "time"

// AlertEvent is produced on the overdue path and consumed exactly once by the
// configured alert sinks.
type AlertEvent struct {
	PatientID string        `json:"patient_id" validate:"required"`
	RunID     string        `json:"run_id,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
	OverdueBy time.Duration `json:"overdue_by"`
	Threshold time.Duration `json:"threshold"`
	Reason    string        `json:"reason"`
	RaisedAt  time.Time     `json:"raised_at"`
}
