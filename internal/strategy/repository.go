package strategy

import (
	"sort"
	"sync"

	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// Repository is the strategy catalog the engine resolves ids against.
type Repository interface {
	// GetStrategy returns the config registered under id.
	GetStrategy(id string) (types.StrategyConfig, error)
	// ListStrategies returns every registered config, ordered by id.
	ListStrategies() []types.StrategyConfig
}

// InMemoryRepository is a Repository backed by a map. Safe for concurrent
// use.
type InMemoryRepository struct {
	mu         sync.RWMutex
	strategies map[string]types.StrategyConfig
}

// NewInMemoryRepository creates an empty in-memory catalog.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{strategies: make(map[string]types.StrategyConfig)}
}

// AddStrategy validates the config and registers it, replacing any
// previous config with the same id.
func (r *InMemoryRepository) AddStrategy(cfg types.StrategyConfig) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid strategy config", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.strategies[cfg.ID] = cfg

	return nil
}

// GetStrategy implements Repository.
func (r *InMemoryRepository) GetStrategy(id string) (types.StrategyConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.strategies[id]
	if !ok {
		return types.StrategyConfig{}, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %q not found", id)
	}

	return cfg, nil
}

// ListStrategies implements Repository.
func (r *InMemoryRepository) ListStrategies() []types.StrategyConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.StrategyConfig, 0, len(r.strategies))
	for _, cfg := range r.strategies {
		out = append(out, cfg)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out
}
