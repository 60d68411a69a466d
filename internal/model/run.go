package model

import (
	"time"

	"github.com/google/uuid"
)

// RunReport is the result of converting one deck.
type RunReport struct {
	// ID uniquely identifies the run, so saved reports can be told apart.
	ID string `json:"id"`

	// Deck is the converted deck's name.
	Deck string `json:"deck"`

	// RomajiField is the name of the field being converted.
	RomajiField string `json:"romaji_field"`

	// WrittenField is the name of the hint field, if any.
	WrittenField string `json:"written_field,omitempty"`

	// SoftEdit is set when nothing was written.
	SoftEdit bool `json:"soft_edit"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Notes holds one result per processed note, in processing order.
	Notes []*NoteResult `json:"notes"`
}

// NewRunReport creates a RunReport with a fresh ID and start time.
func NewRunReport(deck, romajiField, writtenField string) *RunReport {
	return &RunReport{
		ID:           uuid.NewString(),
		Deck:         deck,
		RomajiField:  romajiField,
		WrittenField: writtenField,
		StartedAt:    time.Now(),
	}
}

// Add appends a finalized note result.
func (r *RunReport) Add(result *NoteResult) {
	r.Notes = append(r.Notes, result)
}

// Finish records the end time.
func (r *RunReport) Finish() {
	r.FinishedAt = time.Now()
}

// Duration returns how long the run took, or zero if it has not finished.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary counts note outcomes.
type Summary struct {
	Total     int `json:"total"`
	Converted int `json:"converted"`
	Unchanged int `json:"unchanged"`
	Warnings  int `json:"warnings"`
	Errors    int `json:"errors"`
	Written   int `json:"written"`
}

// Summary counts the notes by status.
func (r *RunReport) Summary() Summary {
	s := Summary{Total: len(r.Notes)}
	for _, n := range r.Notes {
		switch n.Status {
		case StatusConverted:
			s.Converted++
		case StatusUnchanged:
			s.Unchanged++
		case StatusWarning:
			s.Warnings++
		case StatusError:
			s.Errors++
		}
		if n.Written {
			s.Written++
		}
	}
	return s
}

// HasIssues reports whether any note needs review.
func (r *RunReport) HasIssues() bool {
	for _, n := range r.Notes {
		if n.Status.NeedsReview() {
			return true
		}
	}
	return false
}
