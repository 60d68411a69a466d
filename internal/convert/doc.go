// Package convert decides how a romaji field becomes kana.
//
// The Engine looks at the script of an optional hint (the note's written
// form) to choose between katakana transliteration, using the hint as is, and
// hiragana transliteration. A transliteration that still contains Latin
// letters is suspicious; when a hint is available the Engine then asks a
// dictionary for the hint's reading.
//
// The Engine never writes anything. Composing a safety net from the original
// text and deciding whether to write back are left to the caller.
package convert
