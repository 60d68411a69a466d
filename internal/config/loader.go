package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/ankikana/internal/sanitize"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the name looked up in the working and home directories.
const DefaultConfigFile = ".ankikana"

// xdgConfigFile is the name looked up in the XDG config directory.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// SearchPaths lists the implicit configuration file locations, most specific
// first: the working directory, the home directory, then the XDG config
// directory. Locations that cannot be determined are left out.
func SearchPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return append(paths, filepath.Join(XDGConfigDir(), xdgConfigFile))
}

// FindConfigFile returns configPath if it exists, or, when configPath is
// empty, the first existing entry of SearchPaths. It returns "" when nothing
// is found.
func FindConfigFile(configPath string) string {
	paths := SearchPaths()
	if configPath != "" {
		paths = []string{configPath}
	}
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// LoadConfigFile reads a configuration file. Unknown keys are rejected, since
// a misspelled field name would otherwise silently convert the wrong field,
// and every deck's settings are checked.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cf := &File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cf.Decks == nil {
		cf.Decks = make(map[string]DeckConfig)
	}

	if err := cf.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cf, nil
}

// check validates the defaults and every deck as they will be merged.
func (cf *File) check() error {
	if err := checkDeck(cf.Defaults); err != nil {
		return &DeckError{Deck: "defaults", Err: err}
	}
	for name := range cf.Decks {
		if err := checkDeck(cf.GetDeckConfig(name)); err != nil {
			return &DeckError{Deck: name, Err: err}
		}
	}
	return nil
}

func checkDeck(dc DeckConfig) error {
	if dc.Punctuation != "" {
		if _, err := sanitize.ParsePolicy(dc.Punctuation); err != nil {
			return err
		}
	}
	if dc.WrittenField != "" && dc.WrittenField == dc.RomajiField {
		return ErrSameField
	}
	return nil
}

// ResolveConfigFile finds and loads the configuration file. A missing file
// is only an error when configPath was given explicitly; otherwise an empty
// File is returned.
func ResolveConfigFile(configPath string) (*File, error) {
	path := FindConfigFile(configPath)
	switch {
	case path != "":
		return LoadConfigFile(path)
	case configPath != "":
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	default:
		return &File{Decks: make(map[string]DeckConfig)}, nil
	}
}
