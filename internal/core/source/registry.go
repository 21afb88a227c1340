package source

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aevon-lab/dashpoints/internal/core/filter"
)

// Factory opens a fresh, unfiltered view over a registered source.
type Factory func() (RecordSource, error)

type registration struct {
	schema  filter.Schema
	factory Factory
}

// Registry maps stable source keys to record-source factories. It is filled
// once at startup; lookups are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a source under key. Keys are unique and every attribute must
// carry a known type tag.
func (r *Registry) Register(key string, schema filter.Schema, factory Factory) error {
	if key == "" {
		return fmt.Errorf("source key is required")
	}
	if factory == nil {
		return fmt.Errorf("source %q: factory is required", key)
	}
	for attr, t := range schema {
		if !t.Valid() {
			return fmt.Errorf("source %q: attribute %q has unknown type %q", key, attr, t)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("source %q: duplicate registration", key)
	}
	r.entries[key] = registration{schema: schema, factory: factory}
	return nil
}

// Resolve opens the source registered under key.
func (r *Registry) Resolve(key string) (RecordSource, error) {
	entry, err := r.lookup(key)
	if err != nil {
		return nil, err
	}
	src, err := entry.factory()
	if err != nil {
		return nil, fmt.Errorf("open source %q: %w", key, err)
	}
	return src, nil
}

// Schema returns the declared schema of key without opening the source.
func (r *Registry) Schema(key string) (filter.Schema, error) {
	entry, err := r.lookup(key)
	if err != nil {
		return nil, err
	}
	return entry.schema, nil
}

// DateAttributes lists the date-like attributes of key, for configuration UIs.
func (r *Registry) DateAttributes(key string) ([]string, error) {
	schema, err := r.Schema(key)
	if err != nil {
		return nil, err
	}
	return schema.DateAttributes(), nil
}

// Keys returns every registered key in lexical order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) lookup(key string) (registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[key]
	if !ok {
		return registration{}, fmt.Errorf("%w: %q", ErrUnresolvableSource, key)
	}
	return entry, nil
}
