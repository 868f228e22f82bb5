package knowledge

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/basera/basera/internal/core"
	"github.com/basera/basera/internal/logging"
	"github.com/basera/basera/internal/storage"
)

// Registry owns one knowledge store per layer type. It opens the full set up
// front so a layer never races another layer's store creation.
type Registry struct {
	stores map[core.LayerType]*Store
	logger *logging.Logger

	mu     sync.Mutex
	closed bool
}

// RegistryConfig controls where stores live.
type RegistryConfig struct {
	// DataDir is the directory holding one database file per layer.
	// Ignored when InMemory is set.
	DataDir string

	// InMemory opens every store as an in-memory database. Used by tests.
	InMemory bool

	Logger *logging.Logger
}

// OpenRegistry opens a store for every layer type. On any failure the stores
// already opened are closed before returning.
func OpenRegistry(cfg RegistryConfig) (*Registry, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	r := &Registry{
		stores: make(map[core.LayerType]*Store, len(core.AllLayerTypes())),
		logger: logger,
	}

	for _, t := range core.AllLayerTypes() {
		storeCfg := storage.Config{InMemory: cfg.InMemory}
		if !cfg.InMemory {
			storeCfg.Path = filepath.Join(cfg.DataDir, StoreName(t)+".db")
		}

		store, err := Open(storeCfg, t)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("open registry: %w", err)
		}

		r.stores[t] = store
		logger.Debug("opened %s knowledge store (%s)", t, store.Name())
	}

	return r, nil
}

// Store returns the store owned by the given layer.
func (r *Registry) Store(t core.LayerType) (*Store, error) {
	store, ok := r.stores[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownLayer, t)
	}
	return store, nil
}

// Close closes every store. Safe to call more than once.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var firstErr error
	for t, store := range r.stores {
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s store: %w", t, err)
		}
	}
	return firstErr
}
