package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ankikana.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ankikana",
		Short: "Convert romaji in flashcard decks into kana",
		Long: `ankikana turns the romaji stored in a flashcard deck into hiragana,
or into katakana when the note's written form says the word is a loanword.

Notes are read and written through the AnkiConnect add-on, so the flashcard
application must be running. When a conversion still contains Latin letters,
the written form is looked up in an EDICT dictionary to find its reading.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewDictCmd())
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
