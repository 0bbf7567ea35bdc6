// Package settings stores small user preferences and bookkeeping values as JSON documents.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Keys used by the agent.
const (
	KeyAutoDetect   = "auto_detect"
	KeyAutoSubmit   = "auto_submit"
	KeyAutoNavigate = "auto_navigate"
	KeyAnalyzedURLs = "analyzed_urls"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("setting not found")

// Store persists raw JSON values by key.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
}

// Load decodes the value stored at key into out.
func Load(ctx context.Context, s Store, key string, out any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode setting %q: %w", key, err)
	}
	return nil
}

// Save encodes value as JSON and stores it at key.
func Save(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %q: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// Bool returns the boolean stored at key, or def when the key is unset.
func Bool(ctx context.Context, s Store, key string, def bool) (bool, error) {
	var v bool
	if err := Load(ctx, s, key, &v); err != nil {
		if errors.Is(err, ErrNotFound) {
			return def, nil
		}
		return def, err
	}
	return v, nil
}

// MemoryStore keeps settings in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]json.RawMessage)}
}

// Get returns a copy of the stored value.
func (m *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value.
func (m *MemoryStore) Set(_ context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("setting %q is not valid JSON", key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make(json.RawMessage, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

// Delete removes key; deleting a missing key is not an error.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
