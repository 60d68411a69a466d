package convert

import (
	"log/slog"

	"github.com/nao1215/ankikana/internal/edict"
	"github.com/nao1215/ankikana/internal/kana"
	"github.com/nao1215/ankikana/internal/script"
)

// Finder looks up dictionary entries by exact written form.
// *edict.Index implements Finder.
type Finder interface {
	Find(word string) []edict.Entry
}

// Branch identifies how the candidate text was produced.
type Branch int

const (
	// BranchHiragana means the source was transliterated to hiragana.
	BranchHiragana Branch = iota
	// BranchKatakana means the source was transliterated to katakana
	// because the hint had no Japanese characters.
	BranchKatakana
	// BranchHint means the hint was phonetic and was used verbatim.
	BranchHint
)

// String returns the branch name.
func (b Branch) String() string {
	switch b {
	case BranchHiragana:
		return "hiragana"
	case BranchKatakana:
		return "katakana"
	case BranchHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Branch) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Result is the outcome of a single decision.
type Result struct {
	// Text is the converted text.
	Text string `json:"text"`
	// Branch is the script decision that produced the first candidate.
	Branch Branch `json:"branch"`
	// HintProfile is the set of scripts seen in the hint.
	HintProfile script.Class `json:"-"`
	// UsedHint is set when Text is the hint itself.
	UsedHint bool `json:"used_hint"`
	// UsedDictionary is set when Text came from a dictionary reading.
	UsedDictionary bool `json:"used_dictionary"`
	// HasWarning is set when Text still contains Latin letters, or when the
	// dictionary offered more than one reading.
	HasWarning bool `json:"has_warning"`
	// AlreadyConverted is set when Text equals the source, meaning there is
	// nothing to write.
	AlreadyConverted bool `json:"already_converted"`
	// Candidates holds every dictionary match when there was more than one.
	Candidates []edict.Entry `json:"candidates,omitempty"`
}

// Ambiguous reports whether the dictionary offered several readings.
func (r Result) Ambiguous() bool {
	return len(r.Candidates) > 1
}

// Engine makes conversion decisions. It is safe for concurrent use if its
// Transliterator and Finder are.
type Engine struct {
	translit kana.Transliterator
	dict     Finder
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for decision details.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDictionary sets the dictionary used to resolve suspicious conversions.
// Without one, every lookup finds nothing.
func WithDictionary(dict Finder) Option {
	return func(e *Engine) {
		e.dict = dict
	}
}

// New creates an Engine around translit.
func New(translit kana.Transliterator, opts ...Option) *Engine {
	e := &Engine{
		translit: translit,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DecideText is Decide with an empty hint meaning no hint.
func (e *Engine) DecideText(source, hint string) (Result, error) {
	return e.Decide(source, hint, hint != "")
}

// Decide converts source, using hint when hasHint is true. Both strings must
// already be sanitized. An empty hint is treated as absent.
//
// The returned error is ErrEmptySource or a *ConversionFailedError; in both
// cases the Result is zero and the note should be skipped.
func (e *Engine) Decide(source, hint string, hasHint bool) (Result, error) {
	if source == "" {
		return Result{}, ErrEmptySource
	}
	hasHint = hasHint && hint != ""

	var res Result
	if hasHint {
		res.HintProfile = script.Profile(hint)
		e.logger.Debug("hint profile", "hint", hint, "scripts", res.HintProfile.String())

		switch {
		case res.HintProfile.SubsetOf(script.Latin):
			// An initialism such as "WWW".
			res.Text = e.translit.ToKatakana(source)
			res.Branch = BranchKatakana
		case !res.HintProfile.Has(script.Kanji):
			res.Text = hint
			res.Branch = BranchHint
			res.UsedHint = true
		}
	}

	if res.Text == "" {
		res.Text = e.translit.ToHiragana(source)
		res.Branch = BranchHiragana
	}

	if res.Text == "" {
		return Result{}, &ConversionFailedError{Source: source}
	}

	if script.ContainsLatin(res.Text) {
		res.HasWarning = true
		e.logger.Warn("conversion did not result in purely Japanese output", "source", source, "candidate", res.Text)
		if hasHint {
			e.resolve(&res, hint)
		}
	}

	res.AlreadyConverted = res.Text == source
	return res, nil
}

// resolve replaces a suspicious candidate with a dictionary reading of hint.
func (e *Engine) resolve(res *Result, hint string) {
	var entries []edict.Entry
	if e.dict != nil {
		entries = e.dict.Find(hint)
	}

	switch len(entries) {
	case 0:
		e.logger.Warn("no dictionary readings found", "hint", hint)
	case 1:
		e.logger.Info("using dictionary reading", "hint", hint, "reading", entries[0].Reading)
		res.Text = entries[0].Reading
		res.UsedDictionary = true
		res.HasWarning = false
	default:
		e.logger.Warn("multiple dictionary entries found", "hint", hint, "count", len(entries), "chosen", entries[0].Reading)
		res.Text = entries[0].Reading
		res.UsedDictionary = true
		res.Candidates = entries
	}
}
