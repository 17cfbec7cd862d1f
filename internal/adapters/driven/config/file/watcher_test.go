package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
)

func TestPromptName(t *testing.T) {
	tests := []struct {
		name     string
		event    fsnotify.Event
		expected string
		relevant bool
	}{
		{"write", fsnotify.Event{Name: "/p/syllabus_check.txt", Op: fsnotify.Write}, "syllabus_check", true},
		{"create", fsnotify.Event{Name: "/p/textbook_check.txt", Op: fsnotify.Create}, "textbook_check", true},
		{"remove", fsnotify.Event{Name: "/p/syllabus_check.txt", Op: fsnotify.Remove}, "syllabus_check", true},
		{"rename", fsnotify.Event{Name: "/p/syllabus_check.txt", Op: fsnotify.Rename}, "syllabus_check", true},
		{"chmod", fsnotify.Event{Name: "/p/syllabus_check.txt", Op: fsnotify.Chmod}, "", false},
		{"readme", fsnotify.Event{Name: "/p/README.md", Op: fsnotify.Write}, "", false},
		{"editor swap file", fsnotify.Event{Name: "/p/.syllabus_check.txt", Op: fsnotify.Write}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, relevant := promptName(tt.event)
			assert.Equal(t, tt.expected, name)
			assert.Equal(t, tt.relevant, relevant)
		})
	}
}

func TestWatchPrompts_ReloadsOnEdit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	original, err := store.Load(driven.PromptSyllabusCheck)
	require.NoError(t, err)

	reloaded := make(chan string, 1)
	w, err := WatchPrompts(context.Background(), store, dir, WithReloadHook(func(name string) {
		select {
		case reloaded <- name:
		default:
		}
	}))
	require.NoError(t, err)
	defer w.Close()

	edited := "Edited: question %s context %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "syllabus_check.txt"), []byte(edited), 0600))

	select {
	case name := <-reloaded:
		assert.Equal(t, driven.PromptSyllabusCheck, name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	prompt, err := store.Load(driven.PromptSyllabusCheck)
	require.NoError(t, err)
	assert.NotEqual(t, original, prompt)
	assert.Equal(t, edited, prompt)
}

func TestWatchPrompts_StopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	w, err := WatchPrompts(ctx, store, dir)
	require.NoError(t, err)

	cancel()

	select {
	case <-w.done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.NoError(t, w.Close())
}

func TestWatchPrompts_CloseTwice(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	w, err := WatchPrompts(context.Background(), store, dir)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatchPrompts_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	w, err := WatchPrompts(context.Background(), store, dir)
	require.NoError(t, err)
	defer w.Close()

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
