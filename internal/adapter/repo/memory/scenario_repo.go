package memory

import (
	"context"

	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

type ScenarioRepo struct {
	store *Store
}

func NewScenarioRepo(store *Store) ScenarioRepo {
	return ScenarioRepo{store: store}
}

func (r ScenarioRepo) List(_ context.Context) ([]strategy.Scenario, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]strategy.Scenario, len(r.store.scenarios))
	copy(out, r.store.scenarios)
	return out, nil
}

func (r ScenarioRepo) GetByID(_ context.Context, scenarioID string) (strategy.Scenario, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, sc := range r.store.scenarios {
		if sc.ID == scenarioID {
			return sc, nil
		}
	}
	return strategy.Scenario{}, ports.ErrNotFound
}
