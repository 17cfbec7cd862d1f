package search

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
)

// fakeStore returns canned results and records queries.
type fakeStore struct {
	docs    []domain.Document
	queries []string
	limits  []int
}

func (f *fakeStore) Search(_ context.Context, query string, k int) []domain.SearchResult {
	f.queries = append(f.queries, query)
	f.limits = append(f.limits, k)
	results := make([]domain.SearchResult, 0, len(f.docs))
	for i, d := range f.docs {
		results = append(results, domain.SearchResult{Document: d, Distance: float64(i)})
	}
	return results
}

func (f *fakeStore) Documents() []domain.Document { return f.docs }
func (f *fakeStore) Size() int                    { return len(f.docs) }
func (f *fakeStore) Searchable() bool             { return len(f.docs) > 0 }

func newCorpus() (*driving.Corpus, *fakeStore, *fakeStore) {
	syllabus := &fakeStore{docs: []domain.Document{
		domain.NewDocument("Sorting algorithms.", map[string]string{
			domain.MetaChunkID: "syl_chunk_UNIT1_0", domain.MetaSourceType: "syllabus", domain.MetaUnitID: "UNIT_1",
		}),
	}}
	textbook := &fakeStore{docs: []domain.Document{
		domain.NewDocument("Quicksort partitions around a pivot.", map[string]string{
			domain.MetaChunkID: "tb_chunk_algorithms_0", domain.MetaSourceType: "textbook", domain.MetaDocumentName: "algorithms",
		}),
	}}
	return &driving.Corpus{ID: "c1", Syllabus: syllabus, Textbook: textbook}, syllabus, textbook
}

func typeText(v *View, s string) *View {
	for _, r := range s {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return v
}

func TestView_SearchSyllabus(t *testing.T) {
	corpus, syllabus, textbook := newCorpus()
	v := NewView(nil, nil, corpus)
	v.SetDimensions(120, 40)

	v = typeText(v, "sorting")
	assert.Equal(t, "sorting", v.Query())

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.InputFocused())

	msg, ok := cmd().(messages.SearchCompleted)
	require.True(t, ok)
	assert.Equal(t, domain.SourceTypeSyllabus, msg.Source)
	assert.Equal(t, []string{"sorting"}, syllabus.queries)
	assert.Equal(t, []int{DefaultLimit}, syllabus.limits)
	assert.Empty(t, textbook.queries)

	v, _ = v.Update(msg)
	require.Len(t, v.Results(), 1)
	assert.Contains(t, v.View(), "syl_chunk_UNIT1_0")
	assert.Contains(t, v.View(), "1 syllabus chunks")
}

func TestView_ToggleSourceResearches(t *testing.T) {
	corpus, _, textbook := newCorpus()
	v := NewView(nil, nil, corpus)
	v.SetDimensions(120, 40)

	cmd := v.Search("quicksort")
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())

	v, cmd = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.SourceTypeTextbook, v.Source())
	require.NotNil(t, cmd)

	v, _ = v.Update(cmd())
	assert.Equal(t, []string{"quicksort"}, textbook.queries)
	require.NotNil(t, v.SelectedResult())
	assert.Equal(t, "tb_chunk_algorithms_0", v.SelectedResult().Document.ChunkID())
}

func TestView_ToggleWhileTyping(t *testing.T) {
	corpus, _, _ := newCorpus()
	v := NewView(nil, nil, corpus)
	v.SetDimensions(120, 40)

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Nil(t, cmd)
	assert.Equal(t, domain.SourceTypeTextbook, v.Source())
	assert.Contains(t, v.View(), "Textbook:")
	assert.True(t, v.InputFocused())
}

func TestView_NoTextbook(t *testing.T) {
	corpus, _, _ := newCorpus()
	corpus.Textbook = nil
	v := NewView(nil, nil, corpus)
	v.SetDimensions(120, 40)
	v.ToggleSource()

	cmd := v.Search("heaps")
	v, _ = v.Update(cmd())

	assert.ErrorIs(t, v.Err(), ErrNoTextbook)
	assert.Contains(t, v.View(), "Error: no textbooks in corpus")
}

func TestView_NoCorpus(t *testing.T) {
	v := NewView(nil, nil, nil)
	v.SetDimensions(120, 40)

	cmd := v.Search("heaps")
	v, _ = v.Update(cmd())

	assert.ErrorIs(t, v.Err(), ErrNoCorpus)
}

func TestView_BlankSearchFocusesInput(t *testing.T) {
	v := NewView(nil, nil, nil)

	v.Search("")
	assert.True(t, v.InputFocused())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_EscGoesBack(t *testing.T) {
	v := NewView(nil, nil, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewReport}, cmd())
}

func TestView_NewSearch(t *testing.T) {
	corpus, _, _ := newCorpus()
	v := NewView(nil, nil, corpus)
	v.SetDimensions(120, 40)
	v, _ = v.Update(v.Search("sorting")())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Query())
}
