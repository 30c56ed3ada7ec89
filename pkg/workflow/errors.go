package workflow

import "errors"

var (
	// ErrInvalidTimestamp marks a patient record whose insertion timestamp is
	// missing or lies in the future. It is recoverable per patient and never
	// aborts the rest of a batch.
	ErrInvalidTimestamp = errors.New("invalid catheter insertion timestamp")

	// ErrUnknownStage marks a transition into a stage the engine does not know.
	ErrUnknownStage = errors.New("unknown workflow stage")
)

// IsInvalidTimestamp reports whether err is a per-patient timestamp failure.
func IsInvalidTimestamp(err error) bool {
	return errors.Is(err, ErrInvalidTimestamp)
}
