package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/nao1215/ankikana/internal/config"
	"github.com/nao1215/ankikana/internal/edict"
	"github.com/spf13/cobra"
)

//go:embed templates/ankikana.yaml.tmpl
var configTemplateText string

var configTemplate = template.Must(template.New("ankikana.yaml").
	Funcs(template.FuncMap{"quote": strconv.Quote}).
	Parse(configTemplateText))

// templateData fills the configuration template.
type templateData struct {
	URL          string
	Dictionary   string
	RomajiField  string
	Deck         string
	WrittenField string
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented configuration file",
		Long: `Init writes a configuration file documenting every option: the
AnkiConnect address, the dictionary location, and the default and per-deck
field names. With --deck, an entry for that deck is filled in so that
"ankikana convert DECK" needs no further arguments.

Examples:
  # Create .ankikana in the current directory
  ankikana init

  # Set up one deck
  ankikana init --deck "Japanese::Vocab" --romaji-field Reading --written-field Kanji

  # Write to the XDG config directory, replacing an existing file
  ankikana init -f -o ~/.config/ankikana/config.yaml`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Path of the configuration file to write")
	cmd.Flags().BoolP("force", "f", false,
		"Replace an existing file")
	cmd.Flags().String("deck", "",
		"Deck to add an entry for")
	cmd.Flags().String("romaji-field", "Romaji",
		"Field holding the romaji")
	cmd.Flags().StringP("written-field", "w", "",
		"Field holding the written form")
	cmd.Flags().String("url", config.DefaultAnkiConnectURL,
		"AnkiConnect address")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	outputPath, _ := flags.GetString("output")
	force, _ := flags.GetBool("force")
	data := templateData{Dictionary: edict.DefaultPath}
	data.Deck, _ = flags.GetString("deck")
	data.RomajiField, _ = flags.GetString("romaji-field")
	data.WrittenField, _ = flags.GetString("written-field")
	data.URL, _ = flags.GetString("url")

	if strings.TrimSpace(data.RomajiField) == "" {
		return config.ErrNoRomajiField
	}
	if data.WrittenField != "" && data.WrittenField == data.RomajiField {
		return config.ErrSameField
	}

	if err := writeConfigFile(outputPath, data, force); err != nil {
		return err
	}

	// Read it back so a bad deck name or field fails here, not on first use.
	if _, err := config.LoadConfigFile(outputPath); err != nil {
		return fmt.Errorf("generated configuration is invalid: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	if data.Deck != "" {
		fmt.Fprintf(out, "Run \"ankikana convert --soft-edit %s\" to preview the conversion.\n", strconv.Quote(data.Deck))
	} else {
		fmt.Fprintln(out, "Add your decks under \"decks:\" to set their fields.")
	}
	return nil
}

// writeConfigFile renders the template to path. Without force an existing
// file is an error and is left untouched.
func writeConfigFile(path string, data templateData, force bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0600) //nolint:gosec // path is chosen by the user
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
	}
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	if err := configTemplate.Execute(f, data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return f.Close()
}
