package scenario

import (
	"context"

	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

// UseCase exposes the read-only scenario catalog.
type UseCase struct {
	Scenarios ports.ScenarioRepository
}

func (u UseCase) List(ctx context.Context) ([]strategy.Scenario, error) {
	return u.Scenarios.List(ctx)
}
