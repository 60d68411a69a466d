// Package reading suggests kana readings for Japanese text using the kagome
// morphological analyzer and its IPA dictionary.
//
// Suggestions are a review aid for hints the EDICT lookup could not resolve,
// such as inflected verbs or compounds. They are never written to a note.
package reading

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/nao1215/ankikana/internal/kana"
	"github.com/nao1215/ankikana/internal/script"
)

// Suggester produces hiragana readings. The tokenizer and its dictionary are
// loaded on first use, which takes noticeably longer than later calls.
type Suggester struct {
	once sync.Once
	tok  *tokenizer.Tokenizer
	err  error
}

// New returns a Suggester. Nothing is loaded until the first Suggest call.
func New() *Suggester {
	return &Suggester{}
}

func (s *Suggester) init() error {
	s.once.Do(func() {
		t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		if err != nil {
			s.err = fmt.Errorf("failed to initialize tokenizer: %w", err)
			return
		}
		s.tok = t
	})
	return s.err
}

// Suggest returns the hiragana reading of text. The boolean is false when
// some kanji could not be given a reading, in which case the returned string
// keeps those kanji as written.
func (s *Suggester) Suggest(text string) (string, bool, error) {
	if err := s.init(); err != nil {
		return "", false, err
	}
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}

	var sb strings.Builder
	complete := true
	for _, t := range s.tok.Tokenize(text) {
		if r, ok := t.Reading(); ok && r != "" && r != "*" {
			sb.WriteString(kana.KatakanaToHiragana(r))
			continue
		}
		if script.Profile(t.Surface).Has(script.Kanji) {
			complete = false
			sb.WriteString(t.Surface)
			continue
		}
		sb.WriteString(kana.KatakanaToHiragana(t.Surface))
	}
	return sb.String(), complete, nil
}
