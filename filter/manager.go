package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Manager keeps named filters and compiles ad-hoc expressions through a cache
type Manager struct {
	cache   *lruCache
	filters map[string]*ExprFilter
	mu      sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCache sets the number of compiled ad-hoc expressions kept around
func WithCache(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.cache = newLRUCache(size)
		}
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		cache:   newLRUCache(100),
		filters: make(map[string]*ExprFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Compile compiles an expression, reusing a cached program when possible
func (m *Manager) Compile(expression string) (*ExprFilter, error) {
	if f, ok := m.cache.Get(expression); ok {
		return f, nil
	}

	f, err := CompileExprFilter(expression)
	if err != nil {
		return nil, err
	}
	m.cache.Put(expression, f)
	return f, nil
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	f, err := m.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = f
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers multiple filters at once. Nothing is registered
// unless every expression compiles.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]*ExprFilter, len(filters))

	for _, name := range slices.Sorted(maps.Keys(filters)) {
		f, err := m.Compile(filters[name])
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = f
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// Get returns a registered filter by name
func (m *Manager) Get(name string) (*ExprFilter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.filters[name]
	return f, ok
}

// Resolve returns the registered filter called nameOrExpr, or compiles
// nameOrExpr as an expression when no such filter exists
func (m *Manager) Resolve(nameOrExpr string) (*ExprFilter, error) {
	if f, ok := m.Get(nameOrExpr); ok {
		return f, nil
	}
	return m.Compile(nameOrExpr)
}

// Names lists the registered filters in sorted order
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}
