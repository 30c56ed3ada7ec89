package web

import "github.com/dwellwatch/dwellwatch/pkg/models"

// TriggerRunRequest optionally overrides the policy for a single run.
// Durations are hours to keep the JSON surface simple for clinical tooling.
type TriggerRunRequest struct {
	ThresholdHours  float64 `json:"threshold_hours,omitempty"   validate:"omitempty,gt=0"`
	WarnWindowHours float64 `json:"warn_window_hours,omitempty" validate:"omitempty,gte=0"`
}

// TriggerRunResponse carries the run summary and the per-patient outcomes.
type TriggerRunResponse struct {
	Summary  models.RunSummary `json:"summary"`
	Outcomes []models.Outcome  `json:"outcomes"`
}

// PolicyResponse is the effective policy in hours.
type PolicyResponse struct {
	ThresholdHours  float64 `json:"threshold_hours"`
	WarnWindowHours float64 `json:"warn_window_hours"`
}
