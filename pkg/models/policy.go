package models

import (
	"errors"
	"time"
)

// DefaultThreshold is the hospital protocol change interval for indwelling
// catheters. Exceeding it means the catheter is overdue for a change.
const DefaultThreshold = 72 * time.Hour

// DefaultWarnWindow is the width of the band below the threshold in which a
// patient is flagged as approaching the change deadline.
const DefaultWarnWindow = 2 * time.Hour

var (
	ErrThresholdNotPositive = errors.New("policy threshold must be positive")
	ErrWarnWindowInvalid    = errors.New("policy warn window must be non-negative and smaller than the threshold")
)

// Policy holds the evaluation thresholds for a run. It is fixed for the
// lifetime of a run and never mutated.
type Policy struct {
	Threshold  time.Duration `json:"threshold"`
	WarnWindow time.Duration `json:"warn_window"`
}

// DefaultPolicy returns the hospital default policy (72h threshold, 2h warn window).
func DefaultPolicy() Policy {
	return Policy{
		Threshold:  DefaultThreshold,
		WarnWindow: DefaultWarnWindow,
	}
}

func (p Policy) Validate() error {
	if p.Threshold <= 0 {
		return ErrThresholdNotPositive
	}

	if p.WarnWindow < 0 || p.WarnWindow >= p.Threshold {
		return ErrWarnWindowInvalid
	}

	return nil
}
