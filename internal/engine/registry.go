package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Factory is a function that creates a new instance of an engine.
// Engines wrapping the legacy process-global core may return the same
// underlying instance from every call; the registry does not care.
type Factory func() Engine

// Info contains metadata about a registered engine.
type Info struct {
	ID   string
	Name string
}

var (
	factories = make(map[string]Factory)
	names     = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds an engine factory to the registry under the given ID.
// Typically called from an implementation's init() function.
// Panics if an engine with the same ID is already registered.
func Register(id, name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("engine: %q already registered", id))
	}

	factories[id] = f
	names[id] = name
}

// List returns information about all registered engines, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{ID: id, Name: names[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates an engine by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Engine, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("engine: unknown engine %q", id)
	}

	return f(), nil
}

// Exists checks if an engine with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
