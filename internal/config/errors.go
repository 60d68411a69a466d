package config

import (
	"errors"
	"fmt"
)

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrNoDeck is returned when no deck name is given.
	ErrNoDeck = errors.New("no deck specified: provide the name of the deck to convert")

	// ErrNoRomajiField is returned when neither the command line nor the
	// configuration file names the field to convert.
	ErrNoRomajiField = errors.New("no romaji field specified: provide it as an argument or set romajiField in the configuration file")

	// ErrSameField is returned when the written field is the field being converted.
	ErrSameField = errors.New("written field must differ from the romaji field")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidJobs is returned when fewer than one worker is requested.
	ErrInvalidJobs = errors.New("invalid jobs: at least one worker is required")

	// ErrNoURL is returned when the AnkiConnect URL is empty.
	ErrNoURL = errors.New("AnkiConnect URL must not be empty")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)

// DeckError reports an invalid entry in the configuration file.
type DeckError struct {
	// Deck is the deck name, or "defaults".
	Deck string
	Err  error
}

// Error implements the error interface.
func (e *DeckError) Error() string {
	return fmt.Sprintf("deck %q: %v", e.Deck, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeckError) Unwrap() error {
	return e.Err
}
