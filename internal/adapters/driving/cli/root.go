// Package cli provides the scrutiny command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// annotationAI marks commands that need live AI services.
const annotationAI = "scrutiny/ai"

// Options carries the global flags to the service builder.
type Options struct {
	// ConfigDir overrides ~/.scrutiny.
	ConfigDir string

	// Overrides are key=value config pairs from --set.
	Overrides []string

	// WithAI requests embedding and LLM clients. Commands that only chunk
	// or edit settings run without them.
	WithAI bool
}

// Services bundles everything the commands call into.
type Services struct {
	Settings   driving.SettingsService
	Corpus     driving.CorpusService
	Validation driving.ValidationService
	Session    driving.SessionService

	// Prompts is the prompt store wired into validation. PromptDir is where
	// it reads from; serve watches it for edits.
	Prompts   driven.PromptStore
	PromptDir string

	// Server holds the HTTP surface settings.
	Server domain.ServerSettings

	// Close releases AI clients. May be nil.
	Close func()
}

// Builder constructs services for one invocation.
type Builder func(ctx context.Context, opts Options) (*Services, error)

var (
	builder  Builder
	built    *Services
	preset   bool

	verbose   bool
	configDir string
	overrides []string
)

// Service accessors used by the commands. Populated from built.
var (
	settingsService   driving.SettingsService
	corpusService     driving.CorpusService
	validationService driving.ValidationService
	sessionService    driving.SessionService
)

var rootCmd = &cobra.Command{
	Use:   "scrutiny",
	Short: "Scrutinise question papers against a syllabus and textbooks",
	Long: `scrutiny checks every question in an exam paper against the course syllabus
and, optionally, the prescribed textbooks.

Syllabus units and textbook pages are chunked, embedded and indexed. For each
question the closest chunks are retrieved and an LLM judges whether the
question is in the syllabus and covered by the textbook excerpts.`,
	SilenceUsage:      true,
	PersistentPreRunE: buildServices,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.scrutiny)")
	rootCmd.PersistentFlags().StringArrayVar(&overrides, "set", nil, "override a config value for this run (key=value)")
}

// SetBuilder installs the function that wires services before a command runs.
func SetBuilder(b Builder) {
	builder = b
}

// SetServices installs prebuilt services, bypassing the builder.
func SetServices(s *Services) {
	built = s
	preset = s != nil
	applyServices(s)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func buildServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if preset || builder == nil {
		return nil
	}

	s, err := builder(cmd.Context(), Options{
		ConfigDir: configDir,
		Overrides: overrides,
		WithAI:    needsAI(cmd),
	})
	if err != nil {
		return err
	}
	built = s
	applyServices(s)
	return nil
}

func applyServices(s *Services) {
	if s == nil {
		settingsService, corpusService, validationService, sessionService = nil, nil, nil, nil
		return
	}
	settingsService = s.Settings
	corpusService = s.Corpus
	validationService = s.Validation
	sessionService = s.Session
}

func closeServices() {
	if preset || built == nil {
		return
	}
	if built.Close != nil {
		built.Close()
	}
	built = nil
	applyServices(nil)
}

func needsAI(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationAI] == "true" {
			return true
		}
	}
	return false
}

func aiAnnotation() map[string]string {
	return map[string]string{annotationAI: "true"}
}

// errNoSyllabus is returned when a command needs --syllabus.
var errNoSyllabus = errors.New("--syllabus is required")
