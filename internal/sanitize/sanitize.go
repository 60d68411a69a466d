// Package sanitize removes characters that confuse romaji transliteration.
//
// Hyphens and the right single quotation mark (as typed by word processors in
// words like "n’ya") are not part of kana spelling, and the transliterator
// either leaves them behind or splits syllables on them. They are removed or
// replaced by a space according to a Policy. Full-width ASCII is folded to its
// narrow form first, so "ｋａ－ｄｏ" is treated exactly like "ka-do", and
// half-width katakana is widened and recomposed (NFC).
package sanitize

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Policy selects what replaces a word-joining punctuation mark.
type Policy int

const (
	// Delete removes the punctuation mark entirely.
	Delete Policy = iota
	// Spacer replaces the punctuation mark with a single space.
	Spacer
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names.
var ErrUnknownPolicy = errors.New("unknown punctuation policy: expected \"delete\" or \"spacer\"")

// String returns the policy name as used in flags and config files.
func (p Policy) String() string {
	switch p {
	case Delete:
		return "delete"
	case Spacer:
		return "spacer"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a policy name into a Policy. The empty string selects Delete.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "delete":
		return Delete, nil
	case "spacer", "space":
		return Spacer, nil
	default:
		return Delete, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// joiners are replaced according to the policy.
var joiners = []string{"-", "’"}

// Sanitizer normalizes source and hint text before conversion.
// The same Sanitizer must be used for both so they stay comparable.
type Sanitizer struct {
	policy   Policy
	foldWide bool
	replacer *strings.Replacer
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithWidthFold enables or disables folding of full-width and half-width forms.
// Folding is enabled by default.
func WithWidthFold(enabled bool) Option {
	return func(s *Sanitizer) {
		s.foldWide = enabled
	}
}

// New creates a Sanitizer with the given policy.
func New(policy Policy, opts ...Option) *Sanitizer {
	s := &Sanitizer{
		policy:   policy,
		foldWide: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	replacement := ""
	if policy == Spacer {
		replacement = " "
	}
	pairs := make([]string, 0, len(joiners)*2)
	for _, j := range joiners {
		pairs = append(pairs, j, replacement)
	}
	s.replacer = strings.NewReplacer(pairs...)

	return s
}

// Policy returns the configured punctuation policy.
func (s *Sanitizer) Policy() Policy {
	return s.policy
}

// Sanitize returns text with joiners removed or spaced out.
// Recomposition runs last: deleting a joiner can put a base letter next to
// a combining mark that belonged after it.
func (s *Sanitizer) Sanitize(text string) string {
	if !s.foldWide {
		return s.replacer.Replace(text)
	}
	text = s.replacer.Replace(width.Fold.String(text))
	return norm.NFC.String(text)
}
