package cheat

import (
	"context"
	"errors"
	"strings"
	"time"

	"stratforge/internal/app/game"
	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

const CodeLevelUp = "level_up"

var (
	ErrInvalidRequest = errors.New("invalid cheat request")
	ErrUnknownCode    = errors.New("unknown cheat code")
	ErrBadTarget      = errors.New("cheat target must be a city")
)

type Request struct {
	UserID     string
	GameID     string
	Code       string
	TargetType string
	TargetID   string
}

// Changes reports the mutated city before and after the cheat, so the
// caller can render what the shortcut did.
type Changes struct {
	Before strategy.City `json:"before"`
	After  strategy.City `json:"after"`
}

type Response struct {
	Record  strategy.GameRecord `json:"game"`
	Changes Changes             `json:"changes"`
}

// UseCase applies privileged single-target mutations that bypass normal
// action validation. Every applied cheat is appended to the record's
// cheats_used audit trail; failed attempts change nothing and are not
// recorded.
type UseCase struct {
	Games ports.GameRepository
	Now   func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.GameID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if req.Code != CodeLevelUp {
		return Response{}, ErrUnknownCode
	}
	if req.TargetType != "city" {
		return Response{}, ErrBadTarget
	}

	rec, err := game.LoadOwned(ctx, u.Games, req.UserID, req.GameID)
	if err != nil {
		return Response{}, err
	}

	gs := rec.State.Clone()
	city := gs.Player.FindCity(req.TargetID)
	if city == nil {
		return Response{}, ports.ErrNotFound
	}

	before := city.Clone()
	city.Population++
	city.Growth++
	after := city.Clone()

	rec.State = gs
	rec.CheatsUsed = append(rec.CheatsUsed, req.Code)
	rec.LastSaved = u.now()
	rec.IsAutosave = true
	rec.Version++
	if err := u.Games.SaveWithVersion(ctx, rec, rec.Version-1); err != nil {
		return Response{}, err
	}
	return Response{Record: rec, Changes: Changes{Before: before, After: after}}, nil
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now().UTC()
	}
	return time.Now().UTC()
}
