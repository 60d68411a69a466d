package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/ankikana/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format, for sharing a run
// or attaching it to an issue.
type MarkdownWriter struct {
	baseWriter
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownOnlyWarnings keeps only notes that need review in the notes
// table. The summary still counts every note.
func WithMarkdownOnlyWarnings(only bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.onlyIssues = only
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeNotes(md, report)
	w.writeReview(md, report)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("ankikana Report")
	md.PlainText("")

	written := report.WrittenField
	if written == "" {
		written = "-"
	}
	mode := "Edit"
	if report.SoftEdit {
		mode = "Soft edit (nothing saved)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + report.ID + "`"},
			{"Deck", escapeCell(report.Deck)},
			{"Romaji Field", escapeCell(report.RomajiField)},
			{"Written Field", escapeCell(written)},
			{"Mode", mode},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	s := report.Summary()

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"Converted", strconv.Itoa(s.Converted)},
			{"Unchanged", strconv.Itoa(s.Unchanged)},
			{"Warning", strconv.Itoa(s.Warnings)},
			{"Error", strconv.Itoa(s.Errors)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
			{"Saved", strconv.Itoa(s.Written)},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		w.writePieChart(md, s)
	}
	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart of the status distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Note Status Distribution"),
		piechart.WithShowData(true),
	)

	if s.Converted > 0 {
		chart.LabelAndIntValue("Converted", uint64(s.Converted))
	}
	if s.Unchanged > 0 {
		chart.LabelAndIntValue("Unchanged", uint64(s.Unchanged))
	}
	if s.Warnings > 0 {
		chart.LabelAndIntValue("Warning", uint64(s.Warnings))
	}
	if s.Errors > 0 {
		chart.LabelAndIntValue("Error", uint64(s.Errors))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s model.Summary) {
	switch {
	case s.Errors > 0:
		md.Cautionf("%d note(s) could not be converted and were skipped.", s.Errors)
	case s.Warnings > 0:
		md.Warningf("%d note(s) still contain romaji and should be reviewed.", s.Warnings)
	case s.Total == 0:
		md.Note("The deck has no notes.")
	default:
		md.Tip("Every note converted cleanly.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeNotes(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Notes")
	md.PlainText("")

	notes := w.visibleNotes(report)
	if len(notes) == 0 {
		md.PlainText("No notes to report.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(notes))
	for i, n := range notes {
		final := n.Final
		if n.Status == model.StatusError {
			final = n.ErrorMessage
		}
		rows[i] = []string{
			strconv.FormatInt(n.NoteID, 10),
			n.Status.String(),
			escapeCell(truncateString(n.Source, 40)),
			escapeCell(truncateString(final, 40)),
			branchLabel(n.Branch),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Note", "Status", "Source", "Result", "Branch"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeReview adds a collapsible section for every note that needs review.
func (w *MarkdownWriter) writeReview(md *markdown.Markdown, report *model.RunReport) {
	var issues []*model.NoteResult
	for _, n := range w.visibleNotes(report) {
		if n.Status.NeedsReview() {
			issues = append(issues, n)
		}
	}
	if len(issues) == 0 {
		return
	}

	md.H2("Needs Review")
	md.PlainText("")
	for _, n := range issues {
		lines := append([]string{}, n.Messages...)
		for _, c := range n.Candidates {
			lines = append(lines, fmt.Sprintf("candidate: %s = %s %s", c.Word, c.Reading, c.Gloss))
		}
		if n.Suggestion != "" {
			lines = append(lines, "suggested reading: "+n.Suggestion)
		}
		if len(lines) == 0 {
			lines = append(lines, n.Status.String())
		}
		md.Details(fmt.Sprintf("Note %d", n.NoteID), strings.Join(lines, "<br>"))
	}
	md.PlainText("")
}

// escapeCell keeps pipes in field content from breaking the table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
