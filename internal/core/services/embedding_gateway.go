package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// EmbeddingGateway batches texts through an EmbeddingService.
//
// The result of Embed always has one slot per input text. A slot is nil
// when its text is blank or when the batch containing it failed; failed
// batches are not retried.
type EmbeddingGateway struct {
	service    driven.EmbeddingService
	batchSize  int
	batchDelay time.Duration
	sleep      sleepFunc
}

// GatewayOption configures an EmbeddingGateway.
type GatewayOption func(*EmbeddingGateway)

// WithBatchSize sets the number of texts sent per request.
func WithBatchSize(n int) GatewayOption {
	return func(g *EmbeddingGateway) {
		if n > 0 {
			g.batchSize = n
		}
	}
}

// WithBatchDelay sets the pause after every successful request.
func WithBatchDelay(d time.Duration) GatewayOption {
	return func(g *EmbeddingGateway) {
		if d >= 0 {
			g.batchDelay = d
		}
	}
}

// withSleep replaces the pause implementation in tests.
func withSleep(fn sleepFunc) GatewayOption {
	return func(g *EmbeddingGateway) {
		g.sleep = fn
	}
}

// NewEmbeddingGateway creates a gateway over the given service.
func NewEmbeddingGateway(service driven.EmbeddingService, opts ...GatewayOption) *EmbeddingGateway {
	g := &EmbeddingGateway{
		service:    service,
		batchSize:  domain.DefaultBatchSize,
		batchDelay: domain.DefaultBatchDelay,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Embed returns one embedding per text, positionally aligned with texts.
// The only error returned is context cancellation.
func (g *EmbeddingGateway) Embed(ctx context.Context, texts []string, task driven.TaskType) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	batches := (len(texts) + g.batchSize - 1) / g.batchSize
	logger.Debug("Embedding %d texts in %d batch(es) of up to %d", len(texts), batches, g.batchSize)

	for start := 0; start < len(texts); start += g.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + g.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		called, err := g.embedBatch(ctx, texts[start:end], out[start:end], task)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Embedding batch %d-%d failed, marking %d texts absent: %v", start, end-1, end-start, err)
			continue
		}
		if called {
			if err := g.sleep(ctx, g.batchDelay); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// EmbedQuery embeds a single retrieval query.
func (g *EmbeddingGateway) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	vectors, err := g.service.EmbedBatch(ctx, []string{query}, driven.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, domain.ErrEmbeddingUnavailable
	}
	return vectors[0], nil
}

// embedBatch fills dst for the non-blank texts of one batch. It reports
// whether a request was made.
func (g *EmbeddingGateway) embedBatch(
	ctx context.Context, batch []string, dst [][]float32, task driven.TaskType,
) (bool, error) {
	positions := make([]int, 0, len(batch))
	valid := make([]string, 0, len(batch))
	for i, text := range batch {
		if strings.TrimSpace(text) == "" {
			continue
		}
		positions = append(positions, i)
		valid = append(valid, text)
	}
	if len(valid) == 0 {
		logger.Debug("Batch of %d texts is blank, skipping request", len(batch))
		return false, nil
	}

	vectors, err := g.service.EmbedBatch(ctx, valid, task)
	if err != nil {
		return true, err
	}
	if len(vectors) != len(valid) {
		return true, domain.ErrEmbeddingUnavailable
	}

	for i, pos := range positions {
		dst[pos] = vectors[i]
	}
	return true, nil
}
