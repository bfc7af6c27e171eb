package act

import (
	"context"
	"errors"
	"strings"
	"time"

	"stratforge/internal/app/game"
	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

var (
	ErrInvalidRequest = errors.New("invalid action request")
	ErrNotPlayersTurn = errors.New("not the player's turn")
)

type Request struct {
	UserID  string
	GameID  string
	Actions []strategy.Action
	// Strict discards the whole batch when any action fails, instead of
	// persisting the partial result alongside the itemized errors.
	Strict bool
}

type Response struct {
	Record  strategy.GameRecord    `json:"game"`
	Errors  []strategy.ActionError `json:"errors"`
	Applied bool                   `json:"applied"`
}

// UseCase applies a batch of player actions inside the current turn.
// Batches are ordered and partial: later actions observe earlier
// mutations, failures are itemized per action and do not stop the batch.
type UseCase struct {
	Games ports.GameRepository
	Now   func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.GameID) == "" {
		return Response{}, ErrInvalidRequest
	}
	rec, err := game.LoadOwned(ctx, u.Games, req.UserID, req.GameID)
	if err != nil {
		return Response{}, err
	}
	if err := strategy.ValidateState(rec.State); err != nil {
		return Response{}, err
	}
	if rec.State.CurrentPlayer != strategy.SidePlayer {
		return Response{}, ErrNotPlayersTurn
	}

	next, actErrs := strategy.Apply(rec.State, req.Actions, strategy.ApplyConfig{
		Side: strategy.SidePlayer,
	})
	if req.Strict && len(actErrs) > 0 {
		return Response{Record: rec, Errors: actErrs}, nil
	}

	rec.State = next
	rec.LastSaved = u.now()
	rec.IsAutosave = true
	rec.Version++
	if err := u.Games.SaveWithVersion(ctx, rec, rec.Version-1); err != nil {
		return Response{}, err
	}
	return Response{Record: rec, Errors: actErrs, Applied: true}, nil
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now().UTC()
	}
	return time.Now().UTC()
}
