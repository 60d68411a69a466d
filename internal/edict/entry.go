package edict

import (
	"regexp"
	"strings"
)

// Entry is a single dictionary entry.
type Entry struct {
	// Word is the written form, usually kanji.
	Word string `json:"word"`
	// Reading is the kana reading. It equals Word for loan words.
	Reading string `json:"reading"`
	// Gloss is the remainder of the line: part-of-speech tags and meanings.
	Gloss string `json:"gloss"`
}

// String renders the entry as "word = reading gloss".
func (e Entry) String() string {
	return e.Word + " = " + e.Reading + " " + e.Gloss
}

var (
	entryPattern    = regexp.MustCompile(`(.*)\s\[(.*)\]\s/(.*)`)
	loanWordPattern = regexp.MustCompile(`(.*)\s/(.*)`)
)

// ParseLine parses one dictionary line. The line number is only used to
// fill in a *ParseError when neither entry shape matches.
func ParseLine(lineNo int, line string) (Entry, error) {
	line = strings.TrimRight(line, "\r\n")

	if m := entryPattern.FindStringSubmatch(line); m != nil {
		return Entry{Word: m[1], Reading: m[2], Gloss: m[3]}, nil
	}
	if m := loanWordPattern.FindStringSubmatch(line); m != nil {
		return Entry{Word: m[1], Reading: m[1], Gloss: m[2]}, nil
	}
	return Entry{}, &ParseError{Line: lineNo, Text: line}
}
