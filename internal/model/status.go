package model

// Status is the outcome of processing one note.
//
// Statuses are ordered by how much attention they need, so the most severe
// status of a run is simply the maximum.
type Status int

const (
	// StatusUnchanged means the field already held the converted text.
	StatusUnchanged Status = iota

	// StatusConverted means the field was converted cleanly.
	StatusConverted

	// StatusWarning means a conversion was produced but should be reviewed:
	// it still contains Latin letters, or the dictionary offered several readings.
	StatusWarning

	// StatusError means the note was skipped: its field was empty or missing,
	// or nothing could be converted.
	StatusError
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "UNCHANGED"
	case StatusConverted:
		return "CONVERTED"
	case StatusWarning:
		return "WARNING"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NeedsReview reports whether a note with this status should be looked at.
func (s Status) NeedsReview() bool {
	return s >= StatusWarning
}
