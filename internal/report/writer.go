package report

import (
	"io"

	"github.com/nao1215/ankikana/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.RunReport) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer

	// onlyIssues hides notes that do not need review.
	onlyIssues bool
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// visibleNotes returns the notes this writer should list.
func (b *baseWriter) visibleNotes(report *model.RunReport) []*model.NoteResult {
	if !b.onlyIssues {
		return report.Notes
	}
	notes := make([]*model.NoteResult, 0, len(report.Notes))
	for _, n := range report.Notes {
		if n.Status.NeedsReview() {
			notes = append(notes, n)
		}
	}
	return notes
}

// branchLabel turns a branch name such as "katakana" into "Katakana".
// A Caser is not safe for concurrent use, so one is built per call.
func branchLabel(branch string) string {
	if branch == "" {
		return "-"
	}
	return cases.Title(language.English).String(branch)
}
