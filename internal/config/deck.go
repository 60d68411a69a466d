package config

// DeckConfig holds the settings for one deck. Every field is optional.
type DeckConfig struct {
	// RomajiField is the field to convert.
	RomajiField string `yaml:"romajiField,omitempty"`

	// WrittenField is the field holding the written form, used as a hint.
	WrittenField string `yaml:"writtenField,omitempty"`

	// Punctuation is the joiner policy: "delete" or "spacer".
	Punctuation string `yaml:"punctuation,omitempty"`

	// SafetyNet switches the romaji safety net on or off. Nil means unset.
	SafetyNet *bool `yaml:"safetyNet,omitempty"`
}

// AnkiConnectConfig holds the connection settings of the configuration file.
type AnkiConnectConfig struct {
	URL    string `yaml:"url,omitempty"`
	APIKey string `yaml:"apiKey,omitempty"`
}

// File represents the structure of the .ankikana configuration file.
type File struct {
	// AnkiConnect overrides the default connection settings.
	AnkiConnect AnkiConnectConfig `yaml:"ankiConnect,omitempty"`

	// Dictionary is the path of the EDICT file.
	Dictionary string `yaml:"dictionary,omitempty"`

	// Defaults applies to every deck unless overridden in Decks.
	Defaults DeckConfig `yaml:"defaults,omitempty"`

	// Decks maps deck names to their settings.
	Decks map[string]DeckConfig `yaml:"decks,omitempty"`
}

// GetDeckConfig returns the configuration for a deck, merged over the defaults.
func (cf *File) GetDeckConfig(deck string) DeckConfig {
	result := cf.Defaults

	dc, ok := cf.Decks[deck]
	if !ok {
		return result
	}
	if dc.RomajiField != "" {
		result.RomajiField = dc.RomajiField
	}
	if dc.WrittenField != "" {
		result.WrittenField = dc.WrittenField
	}
	if dc.Punctuation != "" {
		result.Punctuation = dc.Punctuation
	}
	if dc.SafetyNet != nil {
		result.SafetyNet = dc.SafetyNet
	}
	return result
}
