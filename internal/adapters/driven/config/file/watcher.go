package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// PromptWatcher clears a PromptStore cache whenever a prompt file in the
// watched directory is written, created, removed or renamed.
type PromptWatcher struct {
	store    driven.PromptStore
	watcher  *fsnotify.Watcher
	onReload func(name string)
	done     chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a PromptWatcher.
type WatcherOption func(*PromptWatcher)

// WithReloadHook calls fn with the prompt name after every reload.
func WithReloadHook(fn func(name string)) WatcherOption {
	return func(w *PromptWatcher) {
		w.onReload = fn
	}
}

// WatchPrompts starts watching dir and reloads store on prompt changes
// until ctx is cancelled or Close is called.
func WatchPrompts(ctx context.Context, store driven.PromptStore, dir string, opts ...WatcherOption) (*PromptWatcher, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompt directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &PromptWatcher{
		store:   store,
		watcher: fw,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.run(ctx)
	logger.Debug("Watching prompts in %s", dir)
	return w, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *PromptWatcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *PromptWatcher) run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name, relevant := promptName(ev)
			if !relevant {
				continue
			}
			w.store.Reload()
			logger.Debug("Prompt %s changed (%s), cache cleared", name, ev.Op)
			if w.onReload != nil {
				w.onReload(name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Prompt watcher error: %v", err)
		}
	}
}

// promptName returns the prompt a filesystem event refers to, and whether
// the event can change its content.
func promptName(ev fsnotify.Event) (string, bool) {
	base := filepath.Base(ev.Name)
	if !strings.HasSuffix(base, ".txt") || strings.HasPrefix(base, ".") {
		return "", false
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return "", false
	}
	return strings.TrimSuffix(base, ".txt"), true
}
