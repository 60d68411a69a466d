package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nao1215/ankikana/internal/anki"
	"github.com/nao1215/ankikana/internal/config"
	"github.com/nao1215/ankikana/internal/convert"
	"github.com/nao1215/ankikana/internal/edict"
	"github.com/nao1215/ankikana/internal/kana"
	ankilog "github.com/nao1215/ankikana/internal/log"
	"github.com/nao1215/ankikana/internal/model"
	"github.com/nao1215/ankikana/internal/pipeline"
	"github.com/nao1215/ankikana/internal/reading"
	"github.com/nao1215/ankikana/internal/report"
	"github.com/nao1215/ankikana/internal/sanitize"
	"github.com/spf13/cobra"
)

// backupHint is printed when the user has not confirmed a backup.
const backupHint = "Please back up your data via Anki->File->Export->Anki Collection Package"

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert DECK [ROMAJI_FIELD]",
		Short: "Convert the romaji in a deck into kana",
		Long: `Convert replaces the romaji in one field of every note in a deck with
hiragana, or with katakana when the written field shows the word is
written in katakana.

Anything that is not romaji is preserved, so "setsumei(suru)" becomes
"せつめい(する)". "-" and "’" are removed by default because they confuse
the converter; use --punctuation spacer to turn them into spaces instead.
Running the command again on a converted deck changes nothing.

When a conversion still contains Latin letters and a written field is
available, the written form is looked up in the EDICT dictionary. If the
conversion is still doubtful, the original romaji is kept after the kana
so nothing is lost.

Examples:
  # Preview the changes first
  ankikana convert --soft-edit "Japanese Vocab" Romaji --written-field Kanji

  # Only show what needs attention
  ankikana convert --soft-edit --only-warnings "Japanese Vocab" Romaji

  # Convert, skipping the backup question
  ankikana convert --yes "Japanese Vocab" Romaji -w Kanji

  # Write a Markdown report to a file
  ankikana convert --soft-edit -m -o report.md "Japanese Vocab" Romaji`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runConvertCmd,
	}

	// Fields
	cmd.Flags().StringP("written-field", "w", "",
		"Field holding the written form (kanji or katakana), used as a conversion hint")
	cmd.Flags().StringP("punctuation", "p", config.DefaultPunctuation,
		`How to treat "-" and "’": delete or spacer`)

	// Behavior
	cmd.Flags().BoolP("soft-edit", "s", false,
		"Do not modify the deck; report every change that would be made")
	cmd.Flags().Bool("only-warnings", false,
		"Only report warnings and errors")
	cmd.Flags().BoolP("yes", "y", false,
		"Do not ask whether a backup exists")
	cmd.Flags().Bool("no-safety-net", false,
		"Do not keep the original romaji after doubtful conversions")
	cmd.Flags().Bool("suggest", false,
		"Suggest readings for doubtful conversions using morphological analysis")
	cmd.Flags().Bool("diff", false,
		"Show a diff of every changed field")
	cmd.Flags().IntP("jobs", "J", config.DefaultJobs,
		"Number of notes converted at once")

	// Dictionary
	cmd.Flags().String("dict", edict.DefaultPath,
		"EDICT dictionary file (EUC-JP)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the dictionary cache")

	// AnkiConnect
	cmd.Flags().String("url", config.DefaultAnkiConnectURL,
		"AnkiConnect address")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each AnkiConnect request")
	cmd.Flags().String("api-key", "",
		"AnkiConnect API key, if one is required")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .ankikana in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runConvertCmd executes the convert command.
func runConvertCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := ankilog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	if !cfg.SoftEdit && !cfg.AssumeYes {
		ok, err := confirmBackup(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), backupHint)
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runConvert(ctx, cmd, cfg, logger)
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Deck = args[0]
	if len(args) > 1 {
		cfg.RomajiField = args[1]
	}

	flags := cmd.Flags()
	var err error
	if cfg.WrittenField, err = flags.GetString("written-field"); err != nil {
		return nil, err
	}
	if cfg.Punctuation, err = flags.GetString("punctuation"); err != nil {
		return nil, err
	}
	if cfg.SoftEdit, err = flags.GetBool("soft-edit"); err != nil {
		return nil, err
	}
	if cfg.OnlyWarnings, err = flags.GetBool("only-warnings"); err != nil {
		return nil, err
	}
	if cfg.AssumeYes, err = flags.GetBool("yes"); err != nil {
		return nil, err
	}
	noSafetyNet, err := flags.GetBool("no-safety-net")
	if err != nil {
		return nil, err
	}
	cfg.SafetyNet = !noSafetyNet
	if cfg.Suggest, err = flags.GetBool("suggest"); err != nil {
		return nil, err
	}
	if cfg.Jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, err
	}
	if cfg.DictionaryPath, err = flags.GetString("dict"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.AnkiConnectURL, err = flags.GetString("url"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.APIKey, err = flags.GetString("api-key"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	cf, err := config.ResolveConfigFile(cfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyFile(cf)

	return cfg, nil
}

// confirmBackup asks whether the decks were backed up. Only "yes" or "y"
// (in any case) counts as confirmation.
func confirmBackup(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "\nWARNING: This command will modify your deck.\n"+
		"If you want to preview changes, run with --soft-edit.\n"+
		"\nHave you created a backup of your decks? (yes or no) ")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}

// runConvert fetches the deck, runs every note through the pipeline and
// writes the report. A cancelled run still reports the notes it finished.
func runConvert(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	client := anki.NewClient(
		anki.WithURL(cfg.AnkiConnectURL),
		anki.WithTimeout(cfg.Timeout),
		anki.WithAPIKey(cfg.APIKey),
		anki.WithLogger(logger),
	)

	if err := client.CheckConnection(ctx).Error(); err != nil {
		return fmt.Errorf("AnkiConnect check failed at %s (is the flashcard application running?): %w",
			cfg.AnkiConnectURL, err)
	}

	notes, err := client.DeckNotes(ctx, cfg.Deck)
	if err != nil {
		return fmt.Errorf("failed to read deck %q: %w", cfg.Deck, err)
	}
	if len(notes) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "No cards in deck '%s'\n", cfg.Deck)
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d notes in deck '%s'\n", len(notes), cfg.Deck)

	dict, closeDict := openDictionary(ctx, cfg, logger)
	defer closeDict()

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	engine := convert.New(kana.New(),
		convert.WithLogger(logger),
		convert.WithDictionary(dict),
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewExtractStep(cfg.RomajiField, cfg.WrittenField),
		pipeline.NewSanitizeStep(sanitize.New(policy)),
		pipeline.NewDecideStep(engine),
	)
	if cfg.Suggest {
		p.AddStep(pipeline.NewSuggestStep(reading.New(), logger))
	}
	p.AddSteps(
		pipeline.NewSafetyNetStep(cfg.SafetyNet),
		pipeline.NewWriteStep(client, cfg.RomajiField, cfg.SoftEdit),
	)

	run := model.NewRunReport(cfg.Deck, cfg.RomajiField, cfg.WrittenField)
	run.SoftEdit = cfg.SoftEdit

	processor := pipeline.NewProcessor(p,
		pipeline.WithProcessorLogger(logger),
		pipeline.WithJobs(cfg.Jobs),
	)
	processErr := processor.Process(ctx, notes, run)
	run.Finish()

	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	if err := outputReport(cmd.OutOrStdout(), cfg, run, diff); err != nil {
		return err
	}

	if processErr != nil {
		return fmt.Errorf("conversion interrupted: %w", processErr)
	}
	return nil
}

// openDictionary prepares the dictionary index. It is only loaded when a
// written field is configured, since lookups need a hint. A missing
// dictionary is not fatal: ambiguous conversions then keep their warning.
func openDictionary(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*edict.Index, func()) {
	noop := func() {}
	if cfg.WrittenField == "" {
		return edict.NewIndex(nil, edict.WithLogger(logger)), noop
	}

	store, err := edict.OpenStore(cfg.DBDir, edict.DefaultStoreOptions())
	if err != nil {
		logger.Warn("dictionary cache unavailable", "dir", cfg.DBDir, "error", err)
		store = nil
	}
	closeStore := noop
	if store != nil {
		closeStore = func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close dictionary cache", "error", err)
			}
		}
	}

	idx := edict.NewIndex(edict.NewCachedLoader(cfg.DictionaryPath, store, logger), edict.WithLogger(logger))
	if err := idx.Load(ctx); err != nil {
		logger.Warn("dictionary not loaded; ambiguous readings will not be resolved",
			"path", cfg.DictionaryPath, "error", err)
	}
	return idx, closeStore
}

// outputReport writes the run report in the requested format.
func outputReport(stdout io.Writer, cfg *config.Config, run *model.RunReport, diff bool) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Notes may hold personal study material, so the file is owner-only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output,
			report.WithPrettyPrint(),
			report.WithVersion(getVersion()),
			report.WithJSONOnlyWarnings(cfg.OnlyWarnings),
		)
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output, report.WithMarkdownOnlyWarnings(cfg.OnlyWarnings))
	default:
		w = report.NewSimpleWriter(output,
			report.WithOnlyWarnings(cfg.OnlyWarnings),
			report.WithVerbose(cfg.Verbose),
			report.WithDiff(diff),
		)
	}

	if _, err := w.Write(run); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
