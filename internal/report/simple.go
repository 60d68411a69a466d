package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/ankikana/internal/model"
)

// SimpleWriter outputs human-readable text reports, one line per note
// followed by a summary.
type SimpleWriter struct {
	baseWriter

	// verbose adds the branch, hint profile and messages of clean notes.
	verbose bool

	// diff prints a unified diff under every changed note.
	diff bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithOnlyWarnings hides notes that converted cleanly.
func WithOnlyWarnings(only bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.onlyIssues = only
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithDiff prints a diff of every changed field.
func WithDiff(diff bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.diff = diff
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeNotes(&sb, report)
	w.writeSummary(&sb, report)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Deck:          %s\n", report.Deck)
	fmt.Fprintf(sb, "Romaji field:  %s\n", report.RomajiField)
	if report.WrittenField != "" {
		fmt.Fprintf(sb, "Written field: %s\n", report.WrittenField)
	}
	if report.SoftEdit {
		sb.WriteString("Mode:          soft edit (nothing is saved)\n")
	} else {
		sb.WriteString("Mode:          edit\n")
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeNotes(sb *strings.Builder, report *model.RunReport) {
	for _, n := range w.visibleNotes(report) {
		w.writeNote(sb, n)
	}
}

func (w *SimpleWriter) writeNote(sb *strings.Builder, n *model.NoteResult) {
	fmt.Fprintf(sb, "[%s] %d ", statusIndicator(n.Status), n.NoteID)

	switch n.Status {
	case model.StatusError:
		fmt.Fprintf(sb, "error: %s\n", n.ErrorMessage)
	case model.StatusUnchanged:
		fmt.Fprintf(sb, "%s (unchanged)\n", n.Source)
	default:
		fmt.Fprintf(sb, "%s -> %s", n.Source, n.Final)
		if n.HasHint && n.Hint != "" {
			fmt.Fprintf(sb, " (hint '%s')", n.Hint)
		}
		sb.WriteString("\n")
	}

	review := n.Status.NeedsReview()
	if w.verbose && n.Branch != "" {
		fmt.Fprintf(sb, "      branch: %s, hint scripts: %s\n", branchLabel(n.Branch), n.HintProfile)
	}
	if review || w.verbose {
		for _, msg := range n.Messages {
			fmt.Fprintf(sb, "      %s\n", msg)
		}
	}
	for _, c := range n.Candidates {
		fmt.Fprintf(sb, "      candidate: %s = %s %s\n", c.Word, c.Reading, c.Gloss)
	}
	if n.Suggestion != "" {
		fmt.Fprintf(sb, "      suggested reading: %s\n", n.Suggestion)
	}
	if n.Status == model.StatusError && n.Note != nil {
		for _, name := range n.Note.FieldNames() {
			fmt.Fprintf(sb, "      %s: %q\n", name, n.Note.Fields[name].Value)
		}
	}
	if w.diff && n.Changed() {
		for _, line := range strings.SplitAfter(FieldDiff(n.Source, n.Final), "\n") {
			if line != "" {
				sb.WriteString("      " + line)
			}
		}
	}
	if review {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	s := report.Summary()

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  CONVERTED: %d\n", s.Converted)
	fmt.Fprintf(sb, "  UNCHANGED: %d\n", s.Unchanged)
	fmt.Fprintf(sb, "  WARNING:   %d\n", s.Warnings)
	fmt.Fprintf(sb, "  ERROR:     %d\n", s.Errors)
	fmt.Fprintf(sb, "  TOTAL:     %d notes, %d saved\n", s.Total, s.Written)
	if report.SoftEdit {
		sb.WriteString("  Soft edit: no note was modified.\n")
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// statusIndicator returns a short marker for the status.
func statusIndicator(status model.Status) string {
	switch status {
	case model.StatusConverted:
		return "+"
	case model.StatusUnchanged:
		return "="
	case model.StatusWarning:
		return "!"
	case model.StatusError:
		return "x"
	default:
		return "?"
	}
}
