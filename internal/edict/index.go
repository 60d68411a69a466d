package edict

import (
	"context"
	"log/slog"
	"sync"
)

// Loader produces dictionary entries in file order.
type Loader interface {
	Load(ctx context.Context) ([]Entry, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) ([]Entry, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) ([]Entry, error) {
	return f(ctx)
}

// Index is an in-memory dictionary with exact-word lookup.
// The entries are loaded once; after that the Index is read-only and safe
// for concurrent use.
type Index struct {
	loader Loader
	logger *slog.Logger

	once    sync.Once
	entries []Entry
	byWord  map[string][]int
	err     error
	loaded  bool
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithLogger sets the logger for load progress.
func WithLogger(logger *slog.Logger) IndexOption {
	return func(idx *Index) {
		if logger != nil {
			idx.logger = logger
		}
	}
}

// NewIndex creates an Index that will read its entries from loader on the
// first call to Load.
func NewIndex(loader Loader, opts ...IndexOption) *Index {
	idx := &Index{
		loader: loader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// NewIndexFromEntries creates an already loaded Index over entries.
func NewIndexFromEntries(entries []Entry, opts ...IndexOption) *Index {
	idx := NewIndex(nil, opts...)
	idx.once.Do(func() {
		idx.build(entries)
	})
	return idx
}

// Load reads the dictionary the first time it is called. Later calls do no
// I/O and return the first call's result, including its error.
func (idx *Index) Load(ctx context.Context) error {
	idx.once.Do(func() {
		if idx.loader == nil {
			idx.err = ErrNoDictionary
			return
		}
		idx.logger.Info("loading dictionary")
		entries, err := idx.loader.Load(ctx)
		if err != nil {
			idx.err = err
			return
		}
		idx.build(entries)
		idx.logger.Info("dictionary loaded", "entries", len(idx.entries))
	})
	return idx.err
}

func (idx *Index) build(entries []Entry) {
	idx.entries = entries
	idx.byWord = make(map[string][]int, len(entries))
	for i, e := range entries {
		idx.byWord[e.Word] = append(idx.byWord[e.Word], i)
	}
	idx.loaded = true
}

// Find returns every entry whose Word equals word, in file order.
// The result is empty when nothing matches or the Index is not loaded.
func (idx *Index) Find(word string) []Entry {
	positions := idx.byWord[word]
	if len(positions) == 0 {
		idx.logger.Debug("word not found in dictionary", "word", word)
		return nil
	}
	found := make([]Entry, len(positions))
	for i, pos := range positions {
		found[i] = idx.entries[pos]
	}
	return found
}

// Len returns the number of loaded entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Loaded reports whether entries were loaded successfully.
func (idx *Index) Loaded() bool {
	return idx.loaded
}

// Entries returns the loaded entries in file order. The slice must not be modified.
func (idx *Index) Entries() []Entry {
	return idx.entries
}
