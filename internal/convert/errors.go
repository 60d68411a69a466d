package convert

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySource is returned when the source text is empty after sanitizing.
	ErrEmptySource = errors.New("source text is empty")

	// ErrConversionFailed matches every *ConversionFailedError.
	ErrConversionFailed = errors.New("conversion produced no output")
)

// ConversionFailedError is returned when transliteration produced nothing.
type ConversionFailedError struct {
	// Source is the text that could not be converted.
	Source string
}

// Error implements the error interface.
func (e *ConversionFailedError) Error() string {
	return fmt.Sprintf("no conversion for text %q", e.Source)
}

// Is reports whether target is ErrConversionFailed.
func (e *ConversionFailedError) Is(target error) bool {
	return target == ErrConversionFailed
}
