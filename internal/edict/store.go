package edict

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// StoreFileName is the name of the cache database inside its directory.
const StoreFileName = "ankikana.db"

// metaDigestKey holds the digest of the dictionary file the cache was built from.
const metaDigestKey = "source_digest"

// Store caches parsed dictionary entries in SQLite so that later runs skip
// decoding and parsing the flat file. Entries keep their file order.
type Store struct {
	db     *sql.DB
	dbPath string
}

// StoreOptions configures Store behavior.
type StoreOptions struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultStoreOptions returns the default store options.
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// OpenStore opens or creates the cache database in dir.
func OpenStore(dir string, opts StoreOptions) (*Store, error) {
	dbPath := filepath.Join(dir, StoreFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("dictionary cache not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY,
		word TEXT NOT NULL,
		reading TEXT NOT NULL,
		gloss TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_word ON entries(word);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Replace swaps the cached entries for entries and records digest as the
// source digest, in one transaction.
func (s *Store) Replace(ctx context.Context, entries []Entry, digest string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO entries (seq, word, reading, gloss) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err = stmt.ExecContext(ctx, i, e.Word, e.Reading, e.Gloss); err != nil {
			return fmt.Errorf("failed to insert entry %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO meta (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaDigestKey, digest)
	if err != nil {
		return fmt.Errorf("failed to record digest: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Digest returns the recorded source digest, or "" if nothing was imported.
func (s *Store) Digest(ctx context.Context) (string, error) {
	var digest string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", metaDigestKey).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read digest: %w", err)
	}
	return digest, nil
}

// Count returns the number of cached entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// Load returns all cached entries in file order. It implements Loader.
func (s *Store) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT word, reading, gloss FROM entries ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Word, &e.Reading, &e.Gloss); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrCacheEmpty
	}
	return entries, nil
}

// Lookup queries the cache directly for word, without building an Index.
func (s *Store) Lookup(ctx context.Context, word string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT word, reading, gloss FROM entries WHERE word = ? ORDER BY seq", word)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Word, &e.Reading, &e.Gloss); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
