package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui"
	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
)

var (
	validateSyllabus    string
	validateQuestions   string
	validateTextbooks   []string
	validateJSON        bool
	validateInteractive bool
)

// Hooks replaced in tests.
var (
	stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	launchBrowser    = func(ctx context.Context, ports *tui.Ports) error {
		app, err := tui.NewApp(ports)
		if err != nil {
			return fmt.Errorf("failed to create TUI: %w", err)
		}
		if err := app.WithContext(ctx).Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	}
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Scrutinise a question paper",
	Long: `Check every question in a question paper against the syllabus and, when
textbooks are given, against the textbook excerpts.

The syllabus is a JSON document with course_name and units. The question
paper is a JSON array of {"question": "...", "text": "..."} objects.

Examples:
  scrutiny validate --syllabus syllabus.json --questions paper.json
  scrutiny validate --syllabus syllabus.json --questions paper.json \
      --textbook algorithms.pdf --textbook structures.pdf --json`,
	Annotations: aiAnnotation(),
	RunE:        runValidate,
}

func init() {
	addValidateFlags(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the report as JSON")
	validateCmd.Flags().BoolVarP(&validateInteractive, "interactive", "i", false, "browse the report in the terminal UI")
	rootCmd.AddCommand(validateCmd)
}

func addValidateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&validateSyllabus, "syllabus", "", "syllabus JSON file")
	cmd.Flags().StringVar(&validateQuestions, "questions", "", "question paper JSON file")
	cmd.Flags().StringArrayVar(&validateTextbooks, "textbook", nil, "textbook PDF (repeatable)")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	report, corpus, err := scrutinise(cmd.Context())
	if err != nil {
		return err
	}

	if validateInteractive {
		if stdoutIsTerminal() {
			return launchBrowser(cmd.Context(), &tui.Ports{Report: report, Corpus: corpus})
		}
		cmd.PrintErrln("Not a terminal; printing the report instead.")
	}

	if validateJSON {
		return outputReportJSON(cmd, report)
	}
	outputReportTable(cmd, report)
	return nil
}

// scrutinise ingests the requested corpus and validates the question paper.
func scrutinise(ctx context.Context) (*domain.ValidationReport, *driving.Corpus, error) {
	if corpusService == nil {
		return nil, nil, errors.New("corpus service not configured")
	}
	if validationService == nil {
		return nil, nil, errors.New("validation service not configured")
	}
	if validateSyllabus == "" {
		return nil, nil, errNoSyllabus
	}
	if validateQuestions == "" {
		return nil, nil, errors.New("--questions is required")
	}

	data, err := os.ReadFile(validateQuestions)
	if err != nil {
		return nil, nil, fmt.Errorf("read question paper: %w", err)
	}
	questions, err := domain.ParseQuestionPaper(data)
	if err != nil {
		return nil, nil, err
	}

	corpus, err := corpusService.Ingest(ctx, driving.IngestRequest{
		SyllabusPath:  validateSyllabus,
		TextbookPaths: validateTextbooks,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("ingest failed: %w", err)
	}

	report, err := validationService.Validate(ctx, corpus, questions)
	if err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}
	return report, corpus, nil
}

func outputReportJSON(cmd *cobra.Command, report *domain.ValidationReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputReportTable(cmd *cobra.Command, report *domain.ValidationReport) {
	if len(report.Verdicts) == 0 {
		cmd.Println("No questions to scrutinise.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for _, v := range report.Verdicts {
		cmd.Printf("  [%s] %s\n", v.QuestionID, oneLine(v.QuestionText, 100))
		cmd.Printf("      Syllabus: %s\n", v.SyllabusStatus)
		if v.SyllabusReasoning != "" {
			cmd.Printf("        %s\n", oneLine(v.SyllabusReasoning, 200))
		}
		cmd.Printf("      Textbook: %s\n", v.TextbookStatus)
		if v.TextbookReasoning != "" {
			cmd.Printf("        %s\n", oneLine(v.TextbookReasoning, 200))
		}
		cmd.Println()
	}
}

// oneLine collapses whitespace and caps s at n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
