// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the scrutiny config directory,
// ~/.scrutiny by default.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates
//   - PromptWatcher: reloads prompts when their files change
package file
