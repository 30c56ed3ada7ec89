// Package fixture provides a static in-memory patient source for demos and
// tests. Fixtures are expressed as hours-before-now offsets so they stay
// meaningful regardless of when a run happens.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/models"
	"github.com/go-playground/validator/v10"
)

// Entry is one patient in a fixtures file.
type Entry struct {
	ID          string  `json:"id"           validate:"required"`
	OffsetHours float64 `json:"offset_hours" validate:"gte=0"`
	DeviceID    string  `json:"device_id,omitempty"`
}

type Source struct {
	entries []Entry
	now     func() time.Time
	logger  *slog.Logger
}

// DefaultEntries mirrors the reference demo data set: one clearly overdue
// patient, one recent, one just under the 72h protocol interval.
func DefaultEntries() []Entry {
	return []Entry{
		{ID: "patient-001", OffsetHours: 100, DeviceID: "fixture-device-001"},
		{ID: "patient-002", OffsetHours: 12, DeviceID: "fixture-device-002"},
		{ID: "patient-003", OffsetHours: 70, DeviceID: "fixture-device-003"},
	}
}

func NewSource(entries []Entry, logger *slog.Logger) (*Source, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	for i, entry := range entries {
		if err := validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("fixture entry %d: %w", i, err)
		}
	}

	return &Source{
		entries: entries,
		now:     time.Now,
		logger:  logger.With("module", "fixture_source"),
	}, nil
}

// WithNow overrides the clock, for tests.
func (s *Source) WithNow(now func() time.Time) *Source {
	s.now = now

	return s
}

func (s *Source) FetchPatients(_ context.Context) ([]models.PatientRecord, error) {
	now := s.now().UTC()
	records := make([]models.PatientRecord, 0, len(s.entries))

	for _, entry := range s.entries {
		record := models.PatientRecord{
			ID:         entry.ID,
			InsertedAt: now.Add(-time.Duration(entry.OffsetHours * float64(time.Hour))),
		}
		if entry.DeviceID != "" {
			record.Device = &models.Device{ID: entry.DeviceID, Type: "catheter"}
		}

		records = append(records, record)
	}

	s.logger.Debug("Loaded fixture patients", "count", len(records))

	return records, nil
}

// LoadEntries reads a fixtures file: a JSON array of entries.
func LoadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures file %s: %w", path, err)
	}

	return entries, nil
}
