package report

import (
	"github.com/pmezard/go-difflib/difflib"
)

// FieldDiff returns a unified diff of a field's content before and after
// conversion. It returns an empty string when nothing changes.
func FieldDiff(before, after string) string {
	if before == after {
		return ""
	}
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return ""
	}
	return s
}
