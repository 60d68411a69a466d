package edict

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/crypto/sha3"
)

// DefaultPath is where the dictionary file is looked for when no path is
// configured, relative to the working directory.
const DefaultPath = "edict/edict"

// FileLoader loads entries from an EUC-JP EDICT file.
type FileLoader struct {
	path   string
	logger *slog.Logger
}

// NewFileLoader creates a FileLoader for path. A nil logger uses slog.Default.
func NewFileLoader(path string, logger *slog.Logger) *FileLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileLoader{path: path, logger: logger}
}

// Path returns the dictionary file path.
func (l *FileLoader) Path() string {
	return l.path
}

// Load parses the whole file.
func (l *FileLoader) Load(ctx context.Context) ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoDictionary, l.path)
		}
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()

	entries, err := Parse(ctx, Decode(f), l.logger.With("file", l.path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
	}
	return entries, nil
}

// FileDigest returns the hex SHA3-256 digest of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha3.New256()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
