package memory

import (
	"context"
	"sort"

	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

type GameRepo struct {
	store *Store
}

func NewGameRepo(store *Store) GameRepo {
	return GameRepo{store: store}
}

func (r GameRepo) GetByID(_ context.Context, gameID string) (strategy.GameRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.games[gameID]
	if !ok {
		return strategy.GameRecord{}, ports.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r GameRepo) GetByName(_ context.Context, userID, name string) (strategy.GameRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, rec := range r.store.games {
		if rec.UserID == userID && rec.Name == name {
			return rec.Clone(), nil
		}
	}
	return strategy.GameRecord{}, ports.ErrNotFound
}

func (r GameRepo) ListByUserID(_ context.Context, userID string) ([]strategy.GameRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]strategy.GameRecord, 0)
	for _, rec := range r.store.games {
		if rec.UserID == userID {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r GameRepo) Create(_ context.Context, rec strategy.GameRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.games[rec.ID]; exists {
		return ports.ErrConflict
	}
	r.store.games[rec.ID] = rec.Clone()
	return nil
}

func (r GameRepo) SaveWithVersion(_ context.Context, rec strategy.GameRecord, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.games[rec.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.games[rec.ID] = rec.Clone()
	return nil
}

func (r GameRepo) Delete(_ context.Context, gameID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.games[gameID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.games, gameID)
	return nil
}
