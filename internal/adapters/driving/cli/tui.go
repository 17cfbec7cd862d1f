package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Scrutinise a question paper and browse the report",
	Long: `Run a validation and open the report in the interactive terminal UI.

Equivalent to 'scrutiny validate --interactive'.

Controls:
  ↑/k, ↓/j - Navigate questions
  Enter    - Show verdict details
  f        - Cycle filter
  /        - Search the corpus
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	Annotations: aiAnnotation(),
	RunE:        runTUI,
}

func init() {
	addValidateFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	report, corpus, err := scrutinise(cmd.Context())
	if err != nil {
		return err
	}

	return launchBrowser(cmd.Context(), &tui.Ports{Report: report, Corpus: corpus})
}
