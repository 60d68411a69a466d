// Package script classifies Unicode code points into the script categories
// that matter when turning romaji into kana: hiragana, katakana, kanji and
// (ASCII) Latin letters.
//
// Classification is table driven. Each category owns a static list of
// inclusive code point ranges, and the predicates are independent of each
// other: a rune can be CJK without being kanji (kana are CJK but not kanji).
// Callers that need several categories at once use Classify, which returns a
// Class bit set and allocates nothing.
//
// The package also provides CJKRuns, which yields the maximal runs of CJK
// characters in a string. It is used for diagnostic highlighting only.
package script
