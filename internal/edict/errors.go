package edict

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded is returned when an Index is queried for its load error
	// before Load has been called.
	ErrNotLoaded = errors.New("dictionary not loaded")

	// ErrNoDictionary is returned when neither the dictionary file nor a
	// usable cache exists.
	ErrNoDictionary = errors.New("dictionary file not found and no cache available")

	// ErrCacheEmpty is returned by Store.Load when nothing has been imported yet.
	ErrCacheEmpty = errors.New("dictionary cache is empty")
)

// ParseError describes a dictionary line that matches neither entry shape.
// It is a warning: loading continues past it.
type ParseError struct {
	// Line is the 1-based line number in the source file.
	Line int
	// Text is the offending line without its line terminator.
	Text string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse dictionary line %d: %q", e.Line, e.Text)
}
