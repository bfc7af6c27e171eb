package turn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stratforge/internal/app/aiturn"
	"stratforge/internal/app/game"
	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

// Mode selects how the AI side resolves its turn.
type Mode string

const (
	// ModeActionList asks the oracle for an explicit action sequence and
	// replays it through the action applier. Default.
	ModeActionList Mode = "action-list"
	// ModeRosterMerge asks the oracle for whole proposed rosters and
	// merges accepted leaf changes back into the AI sides.
	ModeRosterMerge Mode = "roster-merge"
)

const playerCityRevealRadius = 2

var (
	ErrInvalidRequest = errors.New("invalid end-turn request")
	ErrNotPlayersTurn = errors.New("not the player's turn")
)

type ActionResolver interface {
	Resolve(ctx context.Context, gs strategy.GameState) []aiturn.SequencedAction
}

type Request struct {
	UserID string
	GameID string
}

type Response struct {
	Record    strategy.GameRecord      `json:"game"`
	AIActions []aiturn.SequencedAction `json:"ai_actions,omitempty"`
	AISummary *aiturn.TurnSummary      `json:"ai_turn_summary,omitempty"`
}

// UseCase resolves one end-of-turn: reveal around the player's cities,
// let the AI side act, advance the turn counter and hand control back to
// the player. The whole transition is computed on a deep copy and lands
// in storage as a single conditional write.
type UseCase struct {
	Games    ports.GameRepository
	Resolver ActionResolver
	// Oracle is consulted directly in roster-merge mode; the action-list
	// mode reaches it through Resolver.
	Oracle ports.DecisionOracle
	Mode   Mode
	Now    func() time.Time
	// Pick chooses among n unexplored tiles when the AI founds a city
	// without naming a location. Nil means math/rand.
	Pick func(n int) int
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

	gs := rec.State.Clone()
	gs.EnsureAIRoster()
	gs.CurrentPlayer = strategy.SideAI

	for _, city := range gs.Player.Cities {
		strategy.RevealRadius(gs.Map.Explored, city.Location, playerCityRevealRadius)
	}

	var seq []aiturn.SequencedAction
	var summary *aiturn.TurnSummary
	if u.Mode == ModeRosterMerge {
		u.resolveRosterMerge(ctx, &gs)
	} else {
		seq = u.resolveActionList(ctx, &gs)
		s := aiturn.Summarize(seq)
		summary = &s
	}

	gs.Turn++
	gs.CurrentPlayer = strategy.SidePlayer

	rec.State = gs
	rec.LastSaved = u.now()
	rec.IsAutosave = true
	rec.Version++
	if err := u.Games.SaveWithVersion(ctx, rec, rec.Version-1); err != nil {
		return Response{}, err
	}
	return Response{Record: rec, AIActions: seq, AISummary: summary}, nil
}

// resolveActionList replays the normalized sequence against the AI's own
// roster. Apply errors are discarded: the oracle's bad moves are not the
// caller's problem, and a missed attack is not an error for the AI.
func (u UseCase) resolveActionList(ctx context.Context, gs *strategy.GameState) []aiturn.SequencedAction {
	resolver := u.Resolver
	if resolver == nil {
		resolver = aiturn.Resolver{Oracle: u.Oracle}
	}
	seq := resolver.Resolve(ctx, *gs)

	actions := make([]strategy.Action, 0, len(seq))
	for _, s := range seq {
		actions = append(actions, s.Action)
	}
	next, _ := strategy.Apply(*gs, actions, strategy.ApplyConfig{
		Side:             strategy.SideAI,
		SilentAttackMiss: true,
		PickFoundLocation: func(explored [][]int) strategy.Location {
			return strategy.RandomUnexploredTile(explored, u.Pick)
		},
	})
	*gs = next
	return seq
}

// resolveRosterMerge sends the reduced player list to the oracle and
// merges whatever survives the structural guard. Any oracle failure
// leaves the rosters untouched; the turn still advances.
func (u UseCase) resolveRosterMerge(ctx context.Context, gs *strategy.GameState) {
	if u.Oracle == nil {
		return
	}
	reduced := strategy.ReducedPlayersFromState(*gs)
	prompt, err := rosterPrompt(gs.Turn, reduced)
	if err != nil {
		return
	}
	raw, err := u.Oracle.Propose(ctx, prompt)
	if err != nil {
		return
	}
	merged := strategy.MergePlayers(reduced, raw)
	strategy.ApplyMergedPlayers(gs, merged)
}

const rosterSystemPrompt = `You command every AI civilization in a turn-based strategy game.
You receive the full list of players with their cities and units. Return
ONLY a JSON array of the same players in the same order, with your
changes applied to the AI-controlled entries. Keep every id unchanged,
keep every field, and never edit the human player's entry. No markdown,
no code fences, no commentary.`

func rosterPrompt(turnNo int, players []strategy.ReducedPlayer) (ports.OraclePrompt, error) {
	payload, err := json.Marshal(players)
	if err != nil {
		return ports.OraclePrompt{}, err
	}
	return ports.OraclePrompt{
		System: rosterSystemPrompt,
		User:   fmt.Sprintf("Turn %d.\n<players>\n%s\n</players>", turnNo, payload),
	}, nil
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now().UTC()
	}
	return time.Now().UTC()
}
