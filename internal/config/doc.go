// Package config provides the configuration for ankikana: connection
// settings for the flashcard application, the deck and fields to convert,
// dictionary locations and report preferences.
package config
