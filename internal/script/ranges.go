package script

// CodePointRange is an inclusive range of Unicode scalar values.
// From must not be greater than To.
type CodePointRange struct {
	From rune
	To   rune
}

// Contains reports whether r lies within the range.
func (cr CodePointRange) Contains(r rune) bool {
	return cr.From <= r && r <= cr.To
}

// inAny reports whether r lies within any of the ranges.
func inAny(ranges []CodePointRange, r rune) bool {
	for _, cr := range ranges {
		if cr.Contains(r) {
			return true
		}
	}
	return false
}

// HiraganaRanges is the Japanese Hiragana block.
var HiraganaRanges = []CodePointRange{
	{From: 0x3040, To: 0x309F},
}

// KatakanaRanges is the Japanese Katakana block, including the prolonged
// sound mark (U+30FC).
var KatakanaRanges = []CodePointRange{
	{From: 0x30A0, To: 0x30FF},
}

// KanjiRanges covers CJK ideographs, compatibility ideographs and radicals.
// The kana blocks are deliberately absent so that a hint made only of kana
// can be told apart from one that contains logographs.
var KanjiRanges = []CodePointRange{
	{From: 0x3300, To: 0x33FF},   // CJK compatibility
	{From: 0xFE30, To: 0xFE4F},   // CJK compatibility forms
	{From: 0xF900, To: 0xFAFF},   // CJK compatibility ideographs
	{From: 0x2F800, To: 0x2FA1F}, // CJK compatibility ideographs supplement
	{From: 0x2E80, To: 0x2EFF},   // CJK radicals supplement
	{From: 0x4E00, To: 0x9FFF},   // CJK unified ideographs
	{From: 0x3400, To: 0x4DBF},   // extension A
	{From: 0x20000, To: 0x2A6DF}, // extension B
	{From: 0x2A700, To: 0x2B73F}, // extension C
	{From: 0x2B740, To: 0x2B81F}, // extension D
	{From: 0x2B820, To: 0x2CEAF}, // extension E
}

// LatinRanges is the ASCII alphabet. Digits and accented letters are not Latin
// for our purposes.
var LatinRanges = []CodePointRange{
	{From: 'A', To: 'Z'},
	{From: 'a', To: 'z'},
}
