package aiturn

import (
	"context"
	"encoding/json"

	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

const fallbackUnitType = "warrior"

type EntityRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type MovementPoints struct {
	Initial   int `json:"initial"`
	Remaining int `json:"remaining"`
}

// SequencedAction is one normalized, orderable step of the AI's turn.
// IDs are 1-based and stable within the sequence.
type SequencedAction struct {
	ID             int                 `json:"id"`
	ActionType     strategy.ActionType `json:"action_type"`
	Entity         *EntityRef          `json:"entity,omitempty"`
	Path           []strategy.Location `json:"path,omitempty"`
	MovementPoints *MovementPoints     `json:"movement_points,omitempty"`
	Action         strategy.Action     `json:"-"`
}

// Resolver turns raw oracle output into a sanitized action sequence for
// the AI side. It never fails: every oracle problem (unreachable, slow,
// malformed text, empty proposal) degrades to a deterministic default
// policy, so the AI always has a legal move each turn.
type Resolver struct {
	Oracle ports.DecisionOracle
}

func (r Resolver) Resolve(ctx context.Context, gs strategy.GameState) []SequencedAction {
	gs.EnsureAIRoster()
	roster := gs.AI[0]

	proposed, ok := r.propose(ctx, gs)
	if !ok {
		proposed = fallbackActions(gs)
	}
	seq := normalize(proposed, roster)
	if len(seq) == 0 {
		seq = normalize(fallbackActions(gs), roster)
	}
	return terminate(seq)
}

func (r Resolver) propose(ctx context.Context, gs strategy.GameState) ([]strategy.Action, bool) {
	if r.Oracle == nil {
		return nil, false
	}
	prompt, err := BuildPrompt(project(gs))
	if err != nil {
		return nil, false
	}
	raw, err := r.Oracle.Propose(ctx, prompt)
	if err != nil {
		return nil, false
	}
	jsonStr, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, false
	}
	return decodeActions(jsonStr)
}

// decodeActions extracts the actions list from the oracle's JSON object.
// Each entry must pass the action schema; entries that do not are
// dropped without becoming user-facing errors. An empty or missing list
// counts as unparsable so the caller falls back.
func decodeActions(jsonStr string) ([]strategy.Action, bool) {
	var envelope struct {
		Actions []json.RawMessage `json:"actions"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &envelope); err != nil {
		return nil, false
	}
	if len(envelope.Actions) == 0 {
		return nil, false
	}
	out := make([]strategy.Action, 0, len(envelope.Actions))
	for _, raw := range envelope.Actions {
		var shape any
		if err := json.Unmarshal(raw, &shape); err != nil {
			continue
		}
		if !validActionShape(shape) {
			continue
		}
		var a strategy.Action
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// normalize re-validates ownership against the AI's own roster and builds
// the sequenced form. Actions referencing unknown or player-owned assets
// are silently dropped; the oracle's mistakes are not the caller's fault.
func normalize(actions []strategy.Action, roster strategy.Roster) []SequencedAction {
	out := make([]SequencedAction, 0, len(actions))
	for _, a := range actions {
		entry, ok := normalizeOne(a, &roster)
		if !ok {
			continue
		}
		entry.ID = len(out) + 1
		out = append(out, entry)
	}
	return out
}

func normalizeOne(a strategy.Action, roster *strategy.Roster) (SequencedAction, bool) {
	entry := SequencedAction{ActionType: a.Type, Action: a}
	switch a.Type {
	case strategy.ActionMoveUnit:
		if roster.FindUnit(a.Details.UnitID) == nil {
			return SequencedAction{}, false
		}
		entry.Entity = &EntityRef{ID: a.Details.UnitID, Type: "unit"}
		if a.Details.Destination != nil {
			entry.Path = []strategy.Location{*a.Details.Destination}
		}
		entry.MovementPoints = &MovementPoints{Initial: strategy.DefaultMovementPoints}
	case strategy.ActionBuildStructure, strategy.ActionTrainUnit:
		if roster.FindCity(a.Details.CityID) == nil {
			return SequencedAction{}, false
		}
		entry.Entity = &EntityRef{ID: a.Details.CityID, Type: "city"}
	case strategy.ActionAttackEnemy:
		// Attacks target opposing assets by construction; no ownership check.
	case strategy.ActionFoundCity,
		strategy.ActionImproveResource,
		strategy.ActionResearchTechnology,
		strategy.ActionEndTurn:
	default:
		return SequencedAction{}, false
	}
	return entry, true
}

// terminate guarantees the sequence ends with endTurn.
func terminate(seq []SequencedAction) []SequencedAction {
	if n := len(seq); n > 0 && seq[n-1].ActionType == strategy.ActionEndTurn {
		return seq
	}
	return append(seq, SequencedAction{
		ID:         len(seq) + 1,
		ActionType: strategy.ActionEndTurn,
		Action:     strategy.Action{Type: strategy.ActionEndTurn},
	})
}

// fallbackActions is the deterministic default policy: found a city at
// the map center, then train, then probe diagonally. One of the three is
// always legal, so the AI never stalls.
func fallbackActions(gs strategy.GameState) []strategy.Action {
	roster := gs.AI[0]
	width := gs.Map.Size.Width
	height := gs.Map.Size.Height

	var act strategy.Action
	switch {
	case len(roster.Cities) == 0:
		center := strategy.Location{X: width / 2, Y: height / 2}
		act = strategy.Action{
			Type:    strategy.ActionFoundCity,
			Details: strategy.ActionDetails{Location: &center},
		}
	case len(roster.Units) == 0:
		act = strategy.Action{
			Type: strategy.ActionTrainUnit,
			Details: strategy.ActionDetails{
				CityID:   roster.Cities[0].ID,
				UnitType: fallbackUnitType,
				Quantity: 1,
			},
		}
	default:
		unit := roster.Units[0]
		dest := strategy.Location{X: unit.Location.X + 1, Y: unit.Location.Y + 1}
		if width > 0 {
			dest.X %= width
		}
		if height > 0 {
			dest.Y %= height
		}
		act = strategy.Action{
			Type:    strategy.ActionMoveUnit,
			Details: strategy.ActionDetails{UnitID: unit.ID, Destination: &dest},
		}
	}
	return []strategy.Action{act, {Type: strategy.ActionEndTurn}}
}
