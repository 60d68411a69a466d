package model

import "fmt"

// Candidate is one dictionary reading offered for an ambiguous hint.
type Candidate struct {
	Word    string `json:"word"`
	Reading string `json:"reading"`
	Gloss   string `json:"gloss"`
}

// NoteResult records everything that happened to a single note.
// Pipeline steps fill it in order; Finalize derives the Status.
type NoteResult struct {
	// NoteID identifies the processed note.
	NoteID int64 `json:"note_id"`

	// Note is the note as fetched. It is kept for error reports.
	Note *Note `json:"-"`

	// === Input ===

	// Source is the romaji field exactly as stored.
	Source string `json:"source"`

	// Sanitized is Source after sanitizing.
	Sanitized string `json:"sanitized"`

	// RawHint is the written field exactly as stored.
	RawHint string `json:"raw_hint,omitempty"`

	// Hint is RawHint after sanitizing.
	Hint string `json:"hint,omitempty"`

	// HasHint is set when a written field was configured and the note has it.
	HasHint bool `json:"has_hint"`

	// === Decision ===

	// Converted is the decision engine's text.
	Converted string `json:"converted,omitempty"`

	// Final is what would be written: Converted, possibly followed by the
	// original text as a safety net.
	Final string `json:"final,omitempty"`

	// Branch names how the candidate was produced.
	Branch string `json:"branch,omitempty"`

	// HintProfile lists the scripts seen in the hint, e.g. "{kanji}".
	HintProfile string `json:"hint_profile,omitempty"`

	UsedHint         bool `json:"used_hint"`
	UsedDictionary   bool `json:"used_dictionary"`
	HasWarning       bool `json:"has_warning"`
	AlreadyConverted bool `json:"already_converted"`
	SafetyNet        bool `json:"safety_net"`

	// Candidates lists every dictionary reading when there was more than one.
	Candidates []Candidate `json:"candidates,omitempty"`

	// Suggestion is a morphological-analysis reading of the hint, offered
	// when the conversion stayed suspicious.
	Suggestion string `json:"suggestion,omitempty"`

	// === Outcome ===

	// Written is set once the final text was saved to the note.
	Written bool `json:"written"`

	// Status is derived by Finalize.
	Status Status `json:"status"`

	// Err is the error that stopped processing, if any.
	Err error `json:"-"`

	// ErrorMessage is Err as text, for serialized reports.
	ErrorMessage string `json:"error,omitempty"`

	// Messages are human-readable notes collected while processing.
	Messages []string `json:"messages,omitempty"`
}

// NewNoteResult creates a NoteResult for note.
func NewNoteResult(note *Note) *NoteResult {
	r := &NoteResult{Note: note}
	if note != nil {
		r.NoteID = note.NoteID
	}
	return r
}

// AddMessage appends a formatted message.
func (r *NoteResult) AddMessage(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// SetError records err as the reason processing stopped.
func (r *NoteResult) SetError(err error) {
	r.Err = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Changed reports whether Final differs from what the note holds.
func (r *NoteResult) Changed() bool {
	return r.Err == nil && r.Final != "" && r.Final != r.Source
}

// Finalize derives Status from the recorded outcome.
func (r *NoteResult) Finalize() {
	switch {
	case r.Err != nil:
		r.Status = StatusError
	case r.HasWarning:
		r.Status = StatusWarning
	case r.AlreadyConverted || !r.Changed():
		r.Status = StatusUnchanged
	default:
		r.Status = StatusConverted
	}
}
