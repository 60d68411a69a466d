// Package report renders the outcome of a conversion run.
//
// Three formats are available:
//   - SimpleWriter: plain text for the terminal, one line per note
//   - JSONWriter: the full run as JSON, for scripts
//   - MarkdownWriter: a shareable summary with a status chart
//
// All writers implement Writer and read the same model.RunReport, so they
// can be combined with MultiWriter.
package report
