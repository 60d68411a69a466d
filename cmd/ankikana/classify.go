package main

import (
	"fmt"
	"strings"

	"github.com/nao1215/ankikana/internal/script"
	"github.com/spf13/cobra"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify TEXT...",
		Short: "Show the script of every character in a text",
		Long: `Classify prints the script (hiragana, katakana, kanji or latin) of every
character in TEXT, the scripts a written field with this text would count
as, and the text with its runs of Japanese characters bracketed.

It is a debugging aid for understanding why convert chose hiragana,
katakana or the written form for a note.

Example:
  ankikana classify "sdf344asfasf天地方益3権sdfsdf"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			for _, r := range text {
				class := script.Classify(r)
				name := class.String()
				if class == 0 {
					name = "other"
				}
				fmt.Fprintf(out, "%U  %c  %s\n", r, r, name)
			}

			fmt.Fprintf(out, "\nprofile:   %s\n", script.Profile(text))
			fmt.Fprintf(out, "highlight: %s\n", script.Highlight(text, "[", "]"))

			var runs []string
			for run := range script.CJKRuns(text) {
				runs = append(runs, run)
			}
			fmt.Fprintf(out, "runs:      %q\n", runs)
			return nil
		},
	}
}
