package anki

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse is returned when a response is not an object with
	// exactly the "result" and "error" members.
	ErrMalformedResponse = errors.New("malformed AnkiConnect response")

	// ErrCannotConnect is returned when nothing answers at the AnkiConnect URL.
	// Usually Anki is not running or the add-on is not installed.
	ErrCannotConnect = errors.New("cannot connect to AnkiConnect")

	// ErrTimeout is returned when AnkiConnect does not answer in time.
	ErrTimeout = errors.New("timeout waiting for AnkiConnect")

	// ErrUnsupportedVersion is returned when the add-on is older than the
	// API version this client speaks.
	ErrUnsupportedVersion = errors.New("unsupported AnkiConnect version")
)

// APIError is an error reported by AnkiConnect itself.
type APIError struct {
	Action  string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("AnkiConnect %s: %s", e.Action, e.Message)
}

// ConnectionStatus is the result of checking the AnkiConnect endpoint.
type ConnectionStatus int

const (
	// ConnectionOK means AnkiConnect answered with a supported version.
	ConnectionOK ConnectionStatus = iota

	// ConnectionRefused means nothing answered.
	ConnectionRefused

	// ConnectionTimeout means the check timed out.
	ConnectionTimeout

	// ConnectionWrongService means something answered, but not a usable AnkiConnect.
	ConnectionWrongService
)

// String returns a human-readable description of the status.
func (s ConnectionStatus) String() string {
	switch s {
	case ConnectionOK:
		return "OK"
	case ConnectionRefused:
		return "cannot connect"
	case ConnectionTimeout:
		return "timeout"
	case ConnectionWrongService:
		return "not a supported AnkiConnect"
	default:
		return "unknown"
	}
}

// Error returns the matching error, or nil if OK.
func (s ConnectionStatus) Error() error {
	switch s {
	case ConnectionOK:
		return nil
	case ConnectionRefused:
		return ErrCannotConnect
	case ConnectionTimeout:
		return ErrTimeout
	case ConnectionWrongService:
		return ErrUnsupportedVersion
	default:
		return errors.New("unknown connection status")
	}
}
