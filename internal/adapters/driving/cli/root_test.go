package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_GlobalFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	require.NotNil(t, flags.Lookup("verbose"))
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
	assert.NotNil(t, flags.Lookup("config-dir"))
	assert.NotNil(t, flags.Lookup("set"))
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"validate", "chunks", "serve", "mcp", "tui", "settings", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestNeedsAI(t *testing.T) {
	assert.True(t, needsAI(validateCmd))
	assert.True(t, needsAI(serveCmd))
	assert.True(t, needsAI(mcpServeCmd))
	assert.False(t, needsAI(chunksCmd))
	assert.False(t, needsAI(settingsShowCmd))
	assert.False(t, needsAI(versionCmd))
}

func TestBuilder_ReceivesOptions(t *testing.T) {
	ts := setupTestServices(t)
	SetServices(nil)
	t.Cleanup(func() { SetBuilder(nil) })

	var got Options
	closed := 0
	SetBuilder(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{Corpus: ts.corpus, Close: func() { closed++ }}, nil
	})

	_, err := execute(t, "--config-dir", "/tmp/scrutiny-test", "--set", "retrieval.top_k=5",
		"chunks", "--textbook", "a.pdf")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/scrutiny-test", got.ConfigDir)
	assert.Equal(t, []string{"retrieval.top_k=5"}, got.Overrides)
	assert.False(t, got.WithAI)
	assert.Equal(t, 1, closed)
	assert.Nil(t, corpusService, "services are released after the command")
}

func TestBuilder_RequestsAIForValidate(t *testing.T) {
	setupTestServices(t)
	SetServices(nil)
	t.Cleanup(func() { SetBuilder(nil) })

	var withAI bool
	SetBuilder(func(_ context.Context, opts Options) (*Services, error) {
		withAI = opts.WithAI
		return &Services{}, nil
	})

	_, err := execute(t, "validate", "--syllabus", "s.json", "--questions", "q.json")
	assert.EqualError(t, err, "corpus service not configured")
	assert.True(t, withAI)
}

func TestBuilder_Error(t *testing.T) {
	setupTestServices(t)
	SetServices(nil)
	t.Cleanup(func() { SetBuilder(nil) })

	boom := errors.New("no config")
	SetBuilder(func(context.Context, Options) (*Services, error) {
		return nil, boom
	})

	_, err := execute(t, "version")
	assert.ErrorIs(t, err, boom)
}

func TestSetServices_Preset(t *testing.T) {
	ts := setupTestServices(t)

	assert.Same(t, ts.corpus, corpusService)
	assert.Same(t, ts.validation, validationService)
	assert.NotNil(t, settingsService)
	assert.Nil(t, sessionService)
}

func TestServeCmd_NeedsSession(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "serve", "--addr", "127.0.0.1:0")
	assert.EqualError(t, err, "session service not configured")
}

func TestSetServices_KeepsBuiltUntilReset(t *testing.T) {
	ts := setupTestServices(t)

	require.NotNil(t, built)
	assert.Same(t, ts.corpus, built.Corpus)

	SetServices(nil)
	assert.Nil(t, built)
	assert.Nil(t, corpusService)
}
