package memory

import (
	"sync"

	"stratforge/internal/domain/strategy"
)

// Store is the shared backing map for the in-memory repositories. Each
// repo method takes the store lock itself; records are deep-copied on
// the way in and out so callers never alias stored state.
type Store struct {
	mu        sync.RWMutex
	games     map[string]strategy.GameRecord
	scenarios []strategy.Scenario
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]strategy.GameRecord),
	}
}

func (s *Store) SeedGame(rec strategy.GameRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[rec.ID] = rec.Clone()
}

func (s *Store) SeedScenarios(scenarios []strategy.Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios = append(s.scenarios[:0], scenarios...)
}
