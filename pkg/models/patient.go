// Package models defines the core domain models for catheter dwell-time evaluation.
package models

import "time"

// Device carries the catheter device metadata attached to a patient record.
type Device struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	System string `json:"system,omitempty"` // coding system, e.g. SNOMED CT
	Code   string `json:"code,omitempty"`   // coding code within System
}

// PatientRecord is a single patient with an indwelling catheter. Records are
// immutable once fetched from a source; the engine only reads them.
type PatientRecord struct {
	ID         string    `json:"id"          validate:"required"`
	InsertedAt time.Time `json:"inserted_at"`
	Device     *Device   `json:"device,omitempty"`
}
