package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptPlaceholders is the number of %s verbs every template must carry:
// the question, then the retrieved context.
const promptPlaceholders = 2

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSyllabusCheck: `You are an expert academic assistant evaluating if an exam question is covered by a given syllabus.

Question: "%s"

%s

Based on the syllabus sections provided:
1. Is the question IN SYLLABUS or OUT OF SYLLABUS?
2. Provide brief reasoning.

Your response MUST start with "SYLLABUS_VERDICT: IN_SYLLABUS" or "SYLLABUS_VERDICT: OUT_OF_SYLLABUS".
Then provide "REASONING: " with your explanation.`,

	driven.PromptTextbookCheck: `Check if this question's topic is covered in the textbook excerpts.

Question: "%s"

%s

Answer with "TEXTBOOK_COVERAGE: YES_IN_TEXTBOOK" or "TEXTBOOK_COVERAGE: NO_IN_PROVIDED_TEXTBOOK_EXCERPTS".
Then provide "REASONING: " with your explanation.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.scrutiny/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
//
// On first call, initialises the prompt directory and creates default files.
// A file that is missing, or that does not carry exactly two %s
// placeholders, falls back to the embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// No lock held during I/O.
	prompt, err := s.loadFromFile(name)
	if err != nil {
		defaultPrompt, ok := defaultPrompts[name]
		if !ok {
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		logger.Warn("Using built-in %s prompt: %v", name, err)
		prompt = defaultPrompt
	}

	// Double-check so concurrent loads agree on one value.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Existing files are never overwritten.
	for name, content := range defaultPrompts {
		path := s.path(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

// loadFromFile reads and checks a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if n := countPlaceholders(prompt); n != promptPlaceholders {
		return "", fmt.Errorf("%s has %d %%s placeholders, want %d", filepath.Base(s.path(name)), n, promptPlaceholders)
	}
	return prompt, nil
}

// countPlaceholders counts %s verbs, ignoring escaped %%.
func countPlaceholders(prompt string) int {
	return strings.Count(strings.ReplaceAll(prompt, "%%", ""), "%s")
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Scrutiny Prompts

This directory contains the prompts scrutiny sends to the LLM when it checks
a question paper.

## Files

- ` + "`syllabus_check.txt`" + ` - Asks whether a question is covered by the syllabus
- ` + "`textbook_check.txt`" + ` - Asks whether the textbook excerpts cover a question

## Customisation

Edit either file to customise the checks. ` + "`scrutiny serve`" + ` and the TUI pick up
changes immediately; other commands read the files on start.

## Format Placeholders

Each prompt takes exactly two ` + "`%s`" + ` placeholders, in this order:
1. The question text
2. The retrieved syllabus or textbook sections

Write ` + "`%%`" + ` for a literal percent sign. A file with the wrong number of
placeholders is ignored and the built-in prompt is used instead.

## Response Format

Parsing relies on the reply starting with the verdict token
(` + "`SYLLABUS_VERDICT: ...`" + ` or ` + "`TEXTBOOK_COVERAGE: ...`" + `) followed by
` + "`REASONING:`" + `. Keep those instructions in any customised prompt.
`
	return os.WriteFile(path, []byte(content), 0600)
}
