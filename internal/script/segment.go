package script

import (
	"iter"
	"strings"
)

// CJKRuns yields the maximal runs of CJK characters in text, left to right.
// Any non-CJK rune ends the current run. The sequence is lazy and can be
// ranged over any number of times.
func CJKRuns(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for i, r := range text {
			if IsCJK(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(text[start:i]) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(text[start:])
		}
	}
}

// Highlight wraps every CJK run of text in open and close,
// e.g. Highlight("abc天地3", "(", ")") == "abc(天地)3".
func Highlight(text, open, closing string) string {
	var sb strings.Builder
	start := -1
	flush := func(end int) {
		sb.WriteString(open)
		sb.WriteString(text[start:end])
		sb.WriteString(closing)
		start = -1
	}
	for i, r := range text {
		if IsCJK(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(i)
		}
		sb.WriteRune(r)
	}
	if start >= 0 {
		flush(len(text))
	}
	return sb.String()
}
