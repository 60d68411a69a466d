package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/ankikana/internal/model"
)

// JSONWriter outputs the run as JSON for machine consumption.
type JSONWriter struct {
	baseWriter

	// indent enables indented output.
	indent bool

	// indentPrefix is the prefix for each line when indenting.
	indentPrefix string

	// indentString is the indentation string (e.g., "  " or "\t").
	indentString string

	// version is recorded in the document.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the tool version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// WithJSONOnlyWarnings keeps only notes that need review.
// The summary still counts every note.
func WithJSONOnlyWarnings(only bool) JSONWriterOption {
	return func(w *JSONWriter) {
		w.onlyIssues = only
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the document JSONWriter produces.
type JSONReport struct {
	Version string        `json:"version,omitempty"`
	Summary model.Summary `json:"summary"`

	// Run is the report with its notes filtered by the writer.
	Run *model.RunReport `json:"run"`
}

// Write outputs the report as a single JSON document followed by a newline.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	run := *report
	run.Notes = w.visibleNotes(report)
	if run.Notes == nil {
		run.Notes = []*model.NoteResult{}
	}

	doc := JSONReport{
		Version: w.version,
		Summary: report.Summary(),
		Run:     &run,
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
