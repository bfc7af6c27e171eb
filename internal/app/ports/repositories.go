package ports

import (
	"context"

	"stratforge/internal/domain/strategy"
)

// GameRepository persists game records keyed by id. SaveWithVersion is an
// optimistic conditional write: it fails with ErrConflict unless the
// stored record still carries expectedVersion. The engine never locks;
// concurrent writers to the same game id are serialized here.
type GameRepository interface {
	GetByID(ctx context.Context, gameID string) (strategy.GameRecord, error)
	// GetByName resolves a game by its human-readable name within one
	// user's games. Kept as a fallback for callers holding pre-rename ids.
	GetByName(ctx context.Context, userID, name string) (strategy.GameRecord, error)
	ListByUserID(ctx context.Context, userID string) ([]strategy.GameRecord, error)
	Create(ctx context.Context, rec strategy.GameRecord) error
	SaveWithVersion(ctx context.Context, rec strategy.GameRecord, expectedVersion int64) error
	Delete(ctx context.Context, gameID string) error
}

type ScenarioRepository interface {
	List(ctx context.Context) ([]strategy.Scenario, error)
	GetByID(ctx context.Context, scenarioID string) (strategy.Scenario, error)
}
