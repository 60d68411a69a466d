package edict

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
)

// CachedLoader loads from a Store when it is up to date with the dictionary
// file, and otherwise parses the file and refreshes the Store.
//
// The cache is up to date when its recorded digest matches the file's. If the
// file is missing the cache is used as is.
type CachedLoader struct {
	file   *FileLoader
	store  *Store
	logger *slog.Logger
}

// NewCachedLoader creates a CachedLoader. A nil store disables caching.
func NewCachedLoader(path string, store *Store, logger *slog.Logger) *CachedLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLoader{
		file:   NewFileLoader(path, logger),
		store:  store,
		logger: logger,
	}
}

// Load implements Loader.
func (l *CachedLoader) Load(ctx context.Context) ([]Entry, error) {
	if l.store == nil {
		return l.file.Load(ctx)
	}

	digest, err := FileDigest(l.file.Path())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read dictionary: %w", err)
		}
		entries, cacheErr := l.store.Load(ctx)
		if errors.Is(cacheErr, ErrCacheEmpty) {
			return nil, fmt.Errorf("%w: %s", ErrNoDictionary, l.file.Path())
		}
		if cacheErr != nil {
			return nil, cacheErr
		}
		l.logger.Debug("dictionary file missing, using cache", "cache", l.store.Path())
		return entries, nil
	}

	cached, err := l.store.Digest(ctx)
	if err != nil {
		l.logger.Warn("could not read dictionary cache", "error", err)
	} else if cached == digest {
		entries, err := l.store.Load(ctx)
		if err == nil {
			l.logger.Debug("using dictionary cache", "cache", l.store.Path())
			return entries, nil
		}
		l.logger.Warn("could not load dictionary cache", "error", err)
	}

	entries, err := l.file.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := l.store.Replace(ctx, entries, digest); err != nil {
		l.logger.Warn("could not refresh dictionary cache", "error", err)
	}
	return entries, nil
}

// Import parses the dictionary file at path into store unconditionally and
// returns the number of entries written.
func Import(ctx context.Context, path string, store *Store, logger *slog.Logger) (int, error) {
	digest, err := FileDigest(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrNoDictionary, path)
		}
		return 0, err
	}
	entries, err := NewFileLoader(path, logger).Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := store.Replace(ctx, entries, digest); err != nil {
		return 0, err
	}
	return len(entries), nil
}
