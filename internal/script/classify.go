package script

import "strings"

// Class is a set of script categories. The zero value means "other".
type Class uint8

const (
	// Hiragana marks a rune from the hiragana block.
	Hiragana Class = 1 << iota
	// Katakana marks a rune from the katakana block.
	Katakana
	// Kanji marks a CJK ideograph, compatibility ideograph or radical.
	Kanji
	// Latin marks an ASCII letter.
	Latin
)

// Other is the empty class: the rune matched no table.
const Other Class = 0

// CJK is the union of the hiragana, katakana and kanji categories.
const CJK = Hiragana | Katakana | Kanji

// Has reports whether every category in o is also in c.
func (c Class) Has(o Class) bool {
	return c&o == o
}

// Any reports whether c and o share at least one category.
func (c Class) Any(o Class) bool {
	return c&o != 0
}

// SubsetOf reports whether every category in c is also in o.
// The empty class is a subset of everything.
func (c Class) SubsetOf(o Class) bool {
	return c&^o == 0
}

// String renders the class as a set, e.g. "{hiragana,kanji}".
func (c Class) String() string {
	names := make([]string, 0, 4)
	if c.Has(Hiragana) {
		names = append(names, "hiragana")
	}
	if c.Has(Katakana) {
		names = append(names, "katakana")
	}
	if c.Has(Kanji) {
		names = append(names, "kanji")
	}
	if c.Has(Latin) {
		names = append(names, "latin")
	}
	return "{" + strings.Join(names, ",") + "}"
}

// IsHiragana reports whether r is in the hiragana block.
func IsHiragana(r rune) bool {
	return inAny(HiraganaRanges, r)
}

// IsKatakana reports whether r is in the katakana block.
func IsKatakana(r rune) bool {
	return inAny(KatakanaRanges, r)
}

// IsKanji reports whether r is a CJK ideograph. Kana are never kanji.
func IsKanji(r rune) bool {
	return inAny(KanjiRanges, r)
}

// IsLatin reports whether r is an ASCII letter.
func IsLatin(r rune) bool {
	return inAny(LatinRanges, r)
}

// IsCJK reports whether r is hiragana, katakana or kanji.
func IsCJK(r rune) bool {
	return IsHiragana(r) || IsKatakana(r) || IsKanji(r)
}

// Classify returns every category r belongs to.
func Classify(r rune) Class {
	var c Class
	if IsHiragana(r) {
		c |= Hiragana
	}
	if IsKatakana(r) {
		c |= Katakana
	}
	if IsKanji(r) {
		c |= Kanji
	}
	if IsLatin(r) {
		c |= Latin
	}
	return c
}

// ContainsLatin reports whether s has at least one Latin letter.
func ContainsLatin(s string) bool {
	for _, r := range s {
		if IsLatin(r) {
			return true
		}
	}
	return false
}
