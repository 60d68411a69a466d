package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/ankikana/internal/anki"
	"github.com/nao1215/ankikana/internal/edict"
	"github.com/nao1215/ankikana/internal/sanitize"
)

// Default configuration values.
const (
	// DefaultAnkiConnectURL is where the AnkiConnect add-on listens.
	// 127.0.0.1 avoids resolving localhost to an IPv6 address the add-on
	// does not bind.
	DefaultAnkiConnectURL = anki.DefaultURL

	// DefaultTimeout bounds every AnkiConnect request. Large decks make
	// notesInfo slow, so this is generous.
	DefaultTimeout = anki.DefaultTimeout

	// DefaultPunctuation is the joiner policy used when none is configured.
	DefaultPunctuation = "delete"

	// DefaultJobs is the number of notes converted at once.
	DefaultJobs = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "ankikana"
)

// Config holds all configuration options for a conversion run.
// It is populated from CLI flags and the configuration file, then passed
// down explicitly.
type Config struct {
	// AnkiConnectURL is the endpoint of the AnkiConnect add-on.
	AnkiConnectURL string

	// APIKey is sent with every request when AnkiConnect requires one.
	APIKey string

	// Timeout applies to each AnkiConnect request.
	Timeout time.Duration

	// Deck is the name of the deck to convert.
	Deck string

	// RomajiField is the field whose romaji is converted.
	RomajiField string

	// WrittenField is the optional field holding the written form (kanji,
	// katakana) used as a conversion hint.
	WrittenField string

	// Punctuation names the joiner policy: "delete" or "spacer".
	Punctuation string

	// Jobs is the number of notes converted concurrently.
	Jobs int

	// DictionaryPath is the EUC-JP EDICT file used for ambiguous readings.
	DictionaryPath string

	// DBDir holds the SQLite dictionary cache.
	// Defaults to XDG data directory (~/.local/share/ankikana on Linux).
	DBDir string

	// SoftEdit previews every change without writing anything.
	SoftEdit bool

	// OnlyWarnings limits the report to notes that need review.
	OnlyWarnings bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// AssumeYes skips the backup confirmation prompt.
	AssumeYes bool

	// SafetyNet appends the original romaji to conversions that still
	// contain Latin letters.
	SafetyNet bool

	// Suggest asks the morphological analyzer for a reading of suspicious
	// conversions.
	Suggest bool

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .ankikana in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// DeckConfigs holds the defaults and per-deck settings loaded from the
	// configuration file.
	DeckConfigs *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		AnkiConnectURL: DefaultAnkiConnectURL,
		Timeout:        DefaultTimeout,
		Punctuation:    DefaultPunctuation,
		DictionaryPath: edict.DefaultPath,
		DBDir:          XDGDataDir(),
		Jobs:           DefaultJobs,
		SafetyNet:      true,
	}
}

// XDGDataDir returns the XDG data directory for ankikana.
// On Linux: ~/.local/share/ankikana
// On macOS: ~/Library/Application Support/ankikana
// On Windows: %LOCALAPPDATA%\ankikana
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for ankikana.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for ankikana.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// ApplyFile merges the settings the configuration file holds for c.Deck.
// Values already set on c (from flags) win, except that a deck can switch
// the safety net off but never back on.
func (c *Config) ApplyFile(cf *File) {
	if cf == nil {
		return
	}
	c.DeckConfigs = cf

	if c.AnkiConnectURL == DefaultAnkiConnectURL && cf.AnkiConnect.URL != "" {
		c.AnkiConnectURL = cf.AnkiConnect.URL
	}
	if c.APIKey == "" {
		c.APIKey = cf.AnkiConnect.APIKey
	}
	if c.DictionaryPath == edict.DefaultPath && cf.Dictionary != "" {
		c.DictionaryPath = cf.Dictionary
	}

	dc := cf.GetDeckConfig(c.Deck)
	if c.RomajiField == "" {
		c.RomajiField = dc.RomajiField
	}
	if c.WrittenField == "" {
		c.WrittenField = dc.WrittenField
	}
	if c.Punctuation == DefaultPunctuation && dc.Punctuation != "" {
		c.Punctuation = dc.Punctuation
	}
	if dc.SafetyNet != nil && !*dc.SafetyNet {
		c.SafetyNet = false
	}
}

// Policy returns the parsed punctuation policy.
func (c *Config) Policy() (sanitize.Policy, error) {
	return sanitize.ParsePolicy(c.Punctuation)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Deck == "" {
		return ErrNoDeck
	}

	if c.RomajiField == "" {
		return ErrNoRomajiField
	}

	if c.WrittenField != "" && c.WrittenField == c.RomajiField {
		return ErrSameField
	}

	if c.AnkiConnectURL == "" {
		return ErrNoURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Jobs < 1 {
		return ErrInvalidJobs
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("invalid punctuation setting: %w", err)
	}

	return nil
}
