package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
)

func newTestGateway(svc *mockEmbeddingService, opts ...GatewayOption) (*EmbeddingGateway, *recordingSleep) {
	rec := &recordingSleep{}
	opts = append(opts, withSleep(rec.sleep))
	return NewEmbeddingGateway(svc, opts...), rec
}

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("text %d about sort", i)
	}
	return out
}

func TestNewEmbeddingGateway_Defaults(t *testing.T) {
	g := NewEmbeddingGateway(&mockEmbeddingService{})

	assert.Equal(t, domain.DefaultBatchSize, g.batchSize)
	assert.Equal(t, domain.DefaultBatchDelay, g.batchDelay)
}

func TestNewEmbeddingGateway_InvalidOptionsIgnored(t *testing.T) {
	g := NewEmbeddingGateway(&mockEmbeddingService{}, WithBatchSize(0), WithBatchDelay(-time.Second))

	assert.Equal(t, domain.DefaultBatchSize, g.batchSize)
	assert.Equal(t, domain.DefaultBatchDelay, g.batchDelay)
}

func TestEmbeddingGateway_Embed_Batches(t *testing.T) {
	svc := &mockEmbeddingService{}
	g, rec := newTestGateway(svc, WithBatchSize(100))

	out, err := g.Embed(context.Background(), texts(250), driven.TaskRetrievalDocument)

	require.NoError(t, err)
	require.Len(t, out, 250)
	for i, v := range out {
		assert.NotEmpty(t, v, "slot %d", i)
	}
	require.Equal(t, 3, svc.callCount())
	assert.Len(t, svc.calls[0], 100)
	assert.Len(t, svc.calls[1], 100)
	assert.Len(t, svc.calls[2], 50)
	assert.Equal(t, driven.TaskRetrievalDocument, svc.tasks[0])
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, rec.pauses)
}

func TestEmbeddingGateway_Embed_Empty(t *testing.T) {
	svc := &mockEmbeddingService{}
	g, rec := newTestGateway(svc)

	out, err := g.Embed(context.Background(), nil, driven.TaskRetrievalDocument)

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, svc.callCount())
	assert.Equal(t, 0, rec.count())
}

func TestEmbeddingGateway_Embed_BlankTextsAbsentAndAligned(t *testing.T) {
	svc := &mockEmbeddingService{vectors: map[string][]float32{
		"first":  {1, 0},
		"second": {0, 1},
	}}
	g, _ := newTestGateway(svc)

	out, err := g.Embed(context.Background(), []string{"first", "  ", "second", ""}, driven.TaskRetrievalDocument)

	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, []float32{1, 0}, out[0])
	assert.Nil(t, out[1])
	assert.Equal(t, []float32{0, 1}, out[2])
	assert.Nil(t, out[3])
	assert.Equal(t, [][]string{{"first", "second"}}, svc.calls)
}

func TestEmbeddingGateway_Embed_AllBlankBatchMakesNoCall(t *testing.T) {
	svc := &mockEmbeddingService{}
	g, rec := newTestGateway(svc)

	out, err := g.Embed(context.Background(), []string{"", " ", "\n"}, driven.TaskRetrievalDocument)

	require.NoError(t, err)
	assert.Equal(t, [][]float32{nil, nil, nil}, out)
	assert.Equal(t, 0, svc.callCount())
	assert.Equal(t, 0, rec.count())
}

func TestEmbeddingGateway_Embed_FailedBatchMarkedAbsent(t *testing.T) {
	svc := &mockEmbeddingService{batchErr: map[int]error{2: errors.New("503 unavailable")}}
	g, rec := newTestGateway(svc, WithBatchSize(2))

	out, err := g.Embed(context.Background(), texts(5), driven.TaskRetrievalDocument)

	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.NotNil(t, out[0])
	assert.NotNil(t, out[1])
	assert.Nil(t, out[2])
	assert.Nil(t, out[3])
	assert.NotNil(t, out[4])
	assert.Equal(t, 3, svc.callCount(), "failed batches are not retried")
	assert.Equal(t, 2, rec.count(), "no pause after a failed batch")
}

func TestEmbeddingGateway_Embed_ShortResponseMarkedAbsent(t *testing.T) {
	svc := &mockEmbeddingService{short: true}
	g, _ := newTestGateway(svc)

	out, err := g.Embed(context.Background(), texts(3), driven.TaskRetrievalDocument)

	require.NoError(t, err)
	assert.Equal(t, [][]float32{nil, nil, nil}, out)
}

func TestEmbeddingGateway_Embed_AllBatchesFail(t *testing.T) {
	svc := &mockEmbeddingService{batchErr: map[int]error{1: errors.New("quota"), 2: errors.New("quota")}}
	g, _ := newTestGateway(svc, WithBatchSize(1))

	out, err := g.Embed(context.Background(), texts(2), driven.TaskRetrievalDocument)

	require.NoError(t, err)
	assert.Equal(t, [][]float32{nil, nil}, out)
}

func TestEmbeddingGateway_Embed_ContextCancelled(t *testing.T) {
	svc := &mockEmbeddingService{}
	g, _ := newTestGateway(svc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Embed(ctx, texts(3), driven.TaskRetrievalDocument)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, svc.callCount())
}

func TestEmbeddingGateway_EmbedQuery(t *testing.T) {
	svc := &mockEmbeddingService{vectors: map[string][]float32{"what is a heap": {0.5, 0.5}}}
	g, _ := newTestGateway(svc)

	v, err := g.EmbedQuery(context.Background(), "  what is a heap  ")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, v)
	assert.Equal(t, []driven.TaskType{driven.TaskRetrievalQuery}, svc.tasks)
}

func TestEmbeddingGateway_EmbedQuery_Errors(t *testing.T) {
	t.Run("blank query", func(t *testing.T) {
		g, _ := newTestGateway(&mockEmbeddingService{})
		_, err := g.EmbedQuery(context.Background(), "   ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("service error", func(t *testing.T) {
		g, _ := newTestGateway(&mockEmbeddingService{queryErr: errors.New("boom")})
		_, err := g.EmbedQuery(context.Background(), "q")
		assert.EqualError(t, err, "boom")
	})

	t.Run("no vector returned", func(t *testing.T) {
		g, _ := newTestGateway(&mockEmbeddingService{short: true})
		_, err := g.EmbedQuery(context.Background(), "q")
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
