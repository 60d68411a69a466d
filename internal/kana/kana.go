// Package kana converts romaji into hiragana or katakana.
//
// The conversion is a greedy longest-match over a syllable table, in the
// style of the romkan tool that Anki users commonly run over their decks.
// Doubled consonants become a small tsu, "n" before a consonant (or at the
// end of a word) becomes ん, and anything the table does not know is copied
// through. ASCII capitals are lowercased before matching, so unrecognized
// letters come out in lowercase ("setsumei (CD)" becomes "せつめい (cd)").
// Copying through is deliberate: a Latin letter left in the output is how
// callers detect that the romaji was not understood.
//
// Vowel-lengthening spelled with vowels is converted literally, so "booringu"
// becomes ボオリング rather than ボーリング. Callers that have the real
// spelling available should prefer it.
package kana

import (
	"strings"
	"unicode/utf8"
)

// Transliterator turns romaji into kana. An empty result means the text could
// not be converted at all.
type Transliterator interface {
	ToHiragana(text string) string
	ToKatakana(text string) string
}

// Romaji is the table-driven Transliterator. The zero value is ready to use.
type Romaji struct{}

// New returns a Romaji transliterator.
func New() *Romaji {
	return &Romaji{}
}

// ToHiragana converts the romaji in text to hiragana. Existing kana and any
// other non-Latin characters are left untouched; Latin letters are lowercased.
func (*Romaji) ToHiragana(text string) string {
	return convert(text, false)
}

// ToKatakana converts the romaji in text to katakana. Existing kana and any
// other non-Latin characters are left untouched; Latin letters are lowercased.
func (*Romaji) ToKatakana(text string) string {
	return convert(text, true)
}

// maxKeyLen is the longest romaji key in the syllable table ("xtsu").
const maxKeyLen = 4

const smallTsu = "っ"

// convert walks text once, emitting kana for every romaji syllable it
// recognizes.
func convert(text string, katakana bool) string {
	src := []rune(text)
	for i, r := range src {
		if r >= 'A' && r <= 'Z' {
			src[i] = r + ('a' - 'A')
		}
	}
	var sb strings.Builder
	sb.Grow(len(text) * 2)

	emit := func(hira string) {
		if katakana {
			sb.WriteString(HiraganaToKatakana(hira))
			return
		}
		sb.WriteString(hira)
	}

	for i := 0; i < len(src); {
		r := src[i]
		if !isASCIILetter(r) && r != '-' {
			sb.WriteRune(r)
			i++
			continue
		}

		if r == 'n' {
			if n, ok := syllabicN(src, i); ok {
				emit("ん")
				i += n
				continue
			}
		}

		if isGeminate(src, i) {
			emit(smallTsu)
			i++
			continue
		}

		if hira, n := longestMatch(src, i); n > 0 {
			emit(hira)
			i += n
			continue
		}

		sb.WriteRune(r)
		i++
	}

	return sb.String()
}

// syllabicN reports whether the 'n' at src[i] stands for ん, and how many
// runes it consumes.
func syllabicN(src []rune, i int) (int, bool) {
	if i+1 >= len(src) {
		return 1, true
	}
	next := src[i+1]
	switch {
	case next == '\'':
		return 2, true
	case next == 'n':
		// "nn" before a vowel or y is ん followed by an n-row syllable
		// ("konnichiwa"); otherwise both letters spell a single ん.
		if i+2 < len(src) && (isVowel(src[i+2]) || src[i+2] == 'y') {
			return 1, true
		}
		return 2, true
	case isVowel(next) || next == 'y':
		return 0, false
	default:
		return 1, true
	}
}

// isGeminate reports whether the consonant at src[i] doubles the next one,
// e.g. the first k of "kekka" or the t of "nitchuu".
func isGeminate(src []rune, i int) bool {
	if i+1 >= len(src) {
		return false
	}
	r, next := src[i], src[i+1]
	if !isASCIILetter(r) || isVowel(r) || r == 'n' {
		return false
	}
	if r == next {
		return true
	}
	return r == 't' && next == 'c' && i+2 < len(src) && src[i+2] == 'h'
}

// longestMatch finds the longest table key starting at src[i].
func longestMatch(src []rune, i int) (string, int) {
	for n := min(maxKeyLen, len(src)-i); n > 0; n-- {
		if hira, ok := syllables[string(src[i:i+n])]; ok {
			return hira, n
		}
	}
	return "", 0
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'i', 'u', 'e', 'o':
		return true
	}
	return false
}

// hiraganaToKatakanaOffset is the distance between the two kana blocks.
const hiraganaToKatakanaOffset = 0x30A1 - 0x3041

// HiraganaToKatakana shifts hiragana (ぁ..ゖ) into the katakana block.
// Everything else, including the prolonged sound mark, is copied.
func HiraganaToKatakana(s string) string {
	return shift(s, 0x3041, 0x3096, hiraganaToKatakanaOffset)
}

// KatakanaToHiragana shifts katakana (ァ..ヶ) into the hiragana block.
// Everything else, including the prolonged sound mark, is copied.
func KatakanaToHiragana(s string) string {
	return shift(s, 0x30A1, 0x30F6, -hiraganaToKatakanaOffset)
}

func shift(s string, from, to, offset rune) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r >= from && r <= to {
			r += offset
		}
		sb.WriteRune(r)
		s = s[size:]
	}
	return sb.String()
}
