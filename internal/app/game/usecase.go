package game

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

var ErrInvalidRequest = errors.New("invalid game request")

// LoadOwned resolves ref as a record id first and falls back to a
// name lookup for the caller, then enforces ownership. Games owned by
// someone else read as absent rather than forbidden.
func LoadOwned(ctx context.Context, repo ports.GameRepository, userID, ref string) (strategy.GameRecord, error) {
	rec, err := repo.GetByID(ctx, ref)
	if err == ports.ErrNotFound {
		rec, err = repo.GetByName(ctx, userID, ref)
	}
	if err != nil {
		return strategy.GameRecord{}, err
	}
	if rec.UserID != userID {
		return strategy.GameRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

type UseCase struct {
	Games     ports.GameRepository
	Scenarios ports.ScenarioRepository
	NewID     func() string
	Now       func() time.Time
}

type CreateRequest struct {
	UserID     string
	Name       string
	ScenarioID string
	State      *strategy.GameState
}

func (u UseCase) List(ctx context.Context, userID string) ([]strategy.GameRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidRequest
	}
	return u.Games.ListByUserID(ctx, userID)
}

func (u UseCase) Create(ctx context.Context, req CreateRequest) (strategy.GameRecord, error) {
	req.Name = strings.TrimSpace(req.Name)
	if strings.TrimSpace(req.UserID) == "" || req.Name == "" {
		return strategy.GameRecord{}, ErrInvalidRequest
	}

	var state strategy.GameState
	switch {
	case req.State != nil:
		state = req.State.Clone()
	case req.ScenarioID != "":
		sc, err := u.Scenarios.GetByID(ctx, req.ScenarioID)
		if err != nil {
			return strategy.GameRecord{}, err
		}
		state = sc.InitialState.Clone()
	default:
		return strategy.GameRecord{}, ErrInvalidRequest
	}
	if err := strategy.ValidateState(state); err != nil {
		return strategy.GameRecord{}, err
	}

	now := u.now()
	rec := strategy.GameRecord{
		ID:         u.newID(),
		UserID:     req.UserID,
		Name:       req.Name,
		ScenarioID: req.ScenarioID,
		CreatedAt:  now,
		LastSaved:  now,
		CheatsUsed: []string{},
		State:      state,
		Version:    1,
	}
	if err := u.Games.Create(ctx, rec); err != nil {
		return strategy.GameRecord{}, err
	}
	return rec, nil
}

func (u UseCase) Get(ctx context.Context, userID, ref string) (strategy.GameRecord, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(ref) == "" {
		return strategy.GameRecord{}, ErrInvalidRequest
	}
	return LoadOwned(ctx, u.Games, userID, ref)
}

// Save stores a caller-supplied snapshot as a manual save.
func (u UseCase) Save(ctx context.Context, userID, ref string, state strategy.GameState) (strategy.GameRecord, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(ref) == "" {
		return strategy.GameRecord{}, ErrInvalidRequest
	}
	rec, err := LoadOwned(ctx, u.Games, userID, ref)
	if err != nil {
		return strategy.GameRecord{}, err
	}
	if err := strategy.ValidateState(state); err != nil {
		return strategy.GameRecord{}, err
	}

	rec.State = state.Clone()
	rec.LastSaved = u.now()
	rec.IsAutosave = false
	rec.Version++
	if err := u.Games.SaveWithVersion(ctx, rec, rec.Version-1); err != nil {
		return strategy.GameRecord{}, err
	}
	return rec, nil
}

func (u UseCase) Delete(ctx context.Context, userID, ref string) error {
	rec, err := LoadOwned(ctx, u.Games, userID, ref)
	if err != nil {
		return err
	}
	return u.Games.Delete(ctx, rec.ID)
}

func (u UseCase) newID() string {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.NewString()
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now().UTC()
	}
	return time.Now().UTC()
}
