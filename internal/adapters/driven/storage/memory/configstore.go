package memory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore.
//
// On its own it backs tests. Layered over another store with NewOverlay it
// carries per-invocation overrides (the CLI --set flag) that shadow the
// base values. Overrides are never written back.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
	base   driven.ConfigStore
}

// NewConfigStore creates a new in-memory config store seeded with values.
func NewConfigStore(seed map[string]any) *ConfigStore {
	values := make(map[string]any, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &ConfigStore{values: values}
}

// NewOverlay creates a store whose values shadow base.
func NewOverlay(base driven.ConfigStore, overrides map[string]any) *ConfigStore {
	s := NewConfigStore(overrides)
	s.base = base
	return s
}

// ParseOverrides turns "key=value" pairs into an override map.
// Values stay strings; the typed getters convert them on read.
func ParseOverrides(pairs []string) (map[string]any, error) {
	overrides := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q: expected key=value", pair)
		}
		overrides[key] = strings.TrimSpace(value)
	}
	return overrides, nil
}

// Get retrieves a configuration value by key, consulting the base store
// when the key is not set locally.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	val, ok := s.values[key]
	s.mu.RUnlock()
	if ok || s.base == nil {
		return val, ok
	}
	return s.base.Get(key)
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// GetInt retrieves an integer configuration value.
// Numeric strings are parsed.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
// Strings accepted by strconv.ParseBool are parsed.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	default:
		return false
	}
}

// GetStringSlice retrieves a string slice configuration value.
// A string value is split on commas.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case string:
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return nil
	}
}

// Set stores a configuration value. On an overlay the value is written
// through to the base store and any override for the key is dropped.
func (s *ConfigStore) Set(key string, value any) error {
	if s.base != nil {
		if err := s.base.Set(key, value); err != nil {
			return err
		}
		s.mu.Lock()
		delete(s.values, key)
		s.mu.Unlock()
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Keys returns the locally set keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save persists the base store, if any. Local values are not persisted.
func (s *ConfigStore) Save() error {
	if s.base == nil {
		return nil
	}
	return s.base.Save()
}

// Load reloads the base store, if any. Local values are kept.
func (s *ConfigStore) Load() error {
	if s.base == nil {
		return nil
	}
	return s.base.Load()
}

// Path returns the base store path, or ":memory:".
func (s *ConfigStore) Path() string {
	if s.base == nil {
		return ":memory:"
	}
	return s.base.Path()
}
