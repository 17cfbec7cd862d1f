// Command scrutiny checks exam question papers against a syllabus and
// textbooks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/scrutiny/internal/adapters/driven/ai"
	"github.com/custodia-labs/scrutiny/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scrutiny/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scrutiny/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/cli"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/core/services"
	"github.com/custodia-labs/scrutiny/internal/logger"
	"github.com/custodia-labs/scrutiny/internal/normalisers/pdf"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBuilder(build)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// build wires the adapters and services for one command.
func build(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dir := opts.ConfigDir
	if dir == "" {
		d, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	// Both .env files are optional. Variables already set are kept.
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	fileStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	overrides, err := memory.ParseOverrides(opts.Overrides)
	if err != nil {
		return nil, err
	}
	store := memory.NewOverlay(fileStore, overrides)

	settingsService := services.NewSettingsService(store, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	logger.Debug("Config: %s (%d override(s))", store.Path(), len(overrides))

	var (
		embedding driven.EmbeddingService
		llm       driven.LLMService
		closeAI   func()
	)
	if opts.WithAI {
		clients, err := ai.Open(ctx, settings)
		if err != nil {
			return nil, err
		}
		embedding, llm = clients.Embedding, clients.LLM
		closeAI = clients.Close
	}

	gateway := services.NewEmbeddingGateway(embedding,
		services.WithBatchSize(settings.Embedding.BatchSize),
		services.WithBatchDelay(settings.Embedding.BatchDelay),
	)
	corpus := services.NewCorpusService(gateway, pdf.New(), flat.Factory, settings.Chunking)

	promptDir := filepath.Join(dir, "prompts")
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, err
	}
	validation := services.NewValidationService(llm,
		services.WithTopK(settings.Retrieval.TopK),
		services.WithContextChars(settings.Retrieval.ContextChars),
		services.WithCallDelay(settings.LLM.CallDelay),
	)
	validation.SetPromptStore(prompts)

	return &cli.Services{
		Settings:   settingsService,
		Corpus:     corpus,
		Validation: validation,
		Session:    services.NewSession(corpus, validation),
		Prompts:    prompts,
		PromptDir:  promptDir,
		Server:     settings.Server,
		Close:      closeAI,
	}, nil
}
