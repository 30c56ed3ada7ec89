package fhir

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dwellwatch/dwellwatch/pkg/models"
)

// Source adapts the FHIR client to the PatientSource interface.
type Source struct {
	client *Client
	logger *slog.Logger

	// snomedOnly restricts matches to devices carrying the SNOMED urinary
	// catheter coding; otherwise any device returned by the catheter type
	// search counts.
	snomedOnly bool
}

func NewSource(client *Client, snomedOnly bool, logger *slog.Logger) *Source {
	return &Source{
		client:     client,
		snomedOnly: snomedOnly,
		logger:     logger.With("module", "fhir_source"),
	}
}

// FetchPatients searches catheter devices and builds one record per patient.
// When a patient has several catheter devices the first one returned wins.
// Malformed entries are skipped, never fatal.
func (s *Source) FetchPatients(ctx context.Context) ([]models.PatientRecord, error) {
	if err := s.client.CheckStatus(ctx); err != nil {
		return nil, err
	}

	bundles, err := s.client.SearchCatheterDevices(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)

	var records []models.PatientRecord

	for _, bundle := range bundles {
		for _, entry := range bundle.Entry {
			record, ok := s.recordFromEntry(entry)
			if !ok || seen[record.ID] {
				continue
			}

			seen[record.ID] = true
			records = append(records, record)
		}
	}

	s.logger.Info("Fetched patients with catheter devices", "count", len(records))

	return records, nil
}

func (s *Source) recordFromEntry(entry BundleEntry) (models.PatientRecord, bool) {
	resource := entry.Resource
	if resource.ResourceType != "Device" {
		return models.PatientRecord{}, false
	}

	if s.snomedOnly && !resource.IsUrinaryCatheter() {
		return models.PatientRecord{}, false
	}

	if resource.Patient == nil || !strings.HasPrefix(resource.Patient.Reference, "Patient/") {
		s.logger.Warn("Skipping device without patient reference", "device_id", resource.ID)

		return models.PatientRecord{}, false
	}

	patientID := strings.TrimPrefix(resource.Patient.Reference, "Patient/")

	record := models.PatientRecord{
		ID: patientID,
		Device: &models.Device{
			ID:   resource.ID,
			Type: "catheter",
		},
	}

	if resource.IsUrinaryCatheter() {
		record.Device.System = SNOMEDSystem
		record.Device.Code = UrinaryCatheterCode
	}

	// The insertion timestamp is taken from the device's meta.lastUpdated.
	// Devices without one produce a record with a zero timestamp, which the
	// engine rejects per patient without harming the batch.
	if resource.Meta != nil {
		record.InsertedAt = resource.Meta.LastUpdated
	}

	return record, true
}
