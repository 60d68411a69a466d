package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/nao1215/ankikana/internal/config"
	"github.com/nao1215/ankikana/internal/edict"
	ankilog "github.com/nao1215/ankikana/internal/log"
	"github.com/spf13/cobra"
)

// NewDictCmd creates the dict command and its subcommands.
func NewDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage the EDICT dictionary",
		Long: `Manage the EDICT dictionary used to resolve doubtful conversions.

The dictionary is a flat EUC-JP file. Importing it into the local cache
(a SQLite database in the XDG data directory) makes later runs start
faster; the cache is refreshed automatically when the file changes.`,
	}

	cmd.PersistentFlags().String("dict", edict.DefaultPath,
		"EDICT dictionary file (EUC-JP)")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory of the dictionary cache")

	cmd.AddCommand(newDictImportCmd())
	cmd.AddCommand(newDictLookupCmd())

	return cmd
}

func newDictImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import the dictionary file into the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, dbDir, err := dictFlags(cmd)
			if err != nil {
				return err
			}
			logger := ankilog.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))

			store, err := edict.OpenStore(dbDir, edict.DefaultStoreOptions())
			if err != nil {
				return fmt.Errorf("failed to open dictionary cache: %w", err)
			}
			defer store.Close()

			n, err := edict.Import(cmd.Context(), path, store, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %s into %s\n", n, path, store.Path())
			return nil
		},
	}
}

func newDictLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup WORD",
		Short: "Print the dictionary entries for a written word",
		Long: `Print every dictionary entry whose written form is exactly WORD,
in dictionary order. The first entry is the one convert would pick.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, dbDir, err := dictFlags(cmd)
			if err != nil {
				return err
			}
			logger := ankilog.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))

			store, err := edict.OpenStore(dbDir, edict.DefaultStoreOptions())
			if err != nil {
				logger.Warn("dictionary cache unavailable", "dir", dbDir, "error", err)
				store = nil
			} else {
				defer store.Close()
			}

			entries, err := lookupWord(cmd.Context(), path, store, args[0], logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "Failed to find %q in the dictionary\n", args[0])
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(out, e.String())
			}
			return nil
		},
	}
}

func dictFlags(cmd *cobra.Command) (string, string, error) {
	path, err := cmd.Flags().GetString("dict")
	if err != nil {
		return "", "", err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return "", "", err
	}
	return path, dbDir, nil
}

// lookupWord queries the cache directly when it is current, and otherwise
// loads the whole dictionary (refreshing the cache on the way).
func lookupWord(ctx context.Context, path string, store *edict.Store, word string, logger *slog.Logger) ([]edict.Entry, error) {
	if store != nil && cacheCurrent(ctx, path, store) {
		return store.Lookup(ctx, word)
	}

	idx := edict.NewIndex(edict.NewCachedLoader(path, store, logger), edict.WithLogger(logger))
	if err := idx.Load(ctx); err != nil {
		return nil, err
	}
	return idx.Find(word), nil
}

// cacheCurrent reports whether the cache holds entries for the file at path,
// or holds entries and the file is gone.
func cacheCurrent(ctx context.Context, path string, store *edict.Store) bool {
	n, err := store.Count(ctx)
	if err != nil || n == 0 {
		return false
	}
	digest, err := edict.FileDigest(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	if err != nil {
		return false
	}
	cached, err := store.Digest(ctx)
	return err == nil && cached == digest
}
