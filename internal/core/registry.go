package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownKind is returned by Lookup for a key nobody registered.
var ErrUnknownKind = errors.New("unknown workbook kind")

var (
	registry   = make(map[string]Kind)
	registryMu sync.RWMutex
)

// Register adds a workbook kind to the registry.
// Panics if a kind with the same key is already registered, or if the kind
// has no sheets.
func Register(kind Kind) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[kind.Info.Key]; exists {
		panic(fmt.Sprintf("workbook kind already registered: %s", kind.Info.Key))
	}
	if len(kind.Sheets) == 0 {
		panic(fmt.Sprintf("workbook kind %s has no sheets", kind.Info.Key))
	}
	if kind.Info.Label == "" {
		kind.Info.Label = kind.Info.Key
	}

	registry[kind.Info.Key] = kind
}

// Get returns a kind by key.
// Returns false if not found.
func Get(key string) (Kind, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kind, ok := registry[key]
	return kind, ok
}

// Lookup is Get with an error naming the registered keys.
func Lookup(key string) (Kind, error) {
	if kind, ok := Get(key); ok {
		return kind, nil
	}
	return Kind{}, fmt.Errorf("%w %q (known kinds: %v)", ErrUnknownKind, key, Keys())
}

// All returns all registered kinds sorted by key.
func All() []Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Kind, 0, len(registry))
	for _, kind := range registry {
		result = append(result, kind)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Keys returns the registered kind keys, sorted.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KindCount returns the number of registered kinds.
func KindCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered kinds.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Kind)
}
