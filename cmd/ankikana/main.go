// Package main provides the entry point for the ankikana CLI.
//
// ankikana converts the romaji stored in a flashcard deck into hiragana or
// katakana through the AnkiConnect add-on.
//
// Usage:
//
//	ankikana convert <deck> <romaji-field> [--written-field <field>]
//	ankikana dict import
//	ankikana classify <text>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
