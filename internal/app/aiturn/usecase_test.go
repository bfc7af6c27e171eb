package aiturn

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stratforge/internal/app/ports"
	"stratforge/internal/domain/strategy"
)

type stubOracle struct {
	reply  string
	err    error
	prompt ports.OraclePrompt
}

func (s *stubOracle) Propose(_ context.Context, p ports.OraclePrompt) (string, error) {
	s.prompt = p
	return s.reply, s.err
}

func resolverState() strategy.GameState {
	explored := make([][]int, 10)
	for y := range explored {
		explored[y] = make([]int, 10)
	}
	return strategy.GameState{
		Turn:          3,
		CurrentPlayer: "ai",
		Player: strategy.Roster{
			Cities: []strategy.City{{ID: "player_city_1", Name: "Alpha", Location: strategy.Location{X: 2, Y: 3}, Owner: strategy.SidePlayer}},
			Units:  []strategy.Unit{{ID: "player_unit_1", Type: "warrior", Location: strategy.Location{X: 2, Y: 4}, Owner: strategy.SidePlayer}},
		},
		AI: []strategy.Roster{{
			Cities: []strategy.City{{ID: "ai_city_1", Name: "Opposition", Location: strategy.Location{X: 7, Y: 7}, Owner: strategy.SideAI}},
			Units:  []strategy.Unit{{ID: "ai_unit_1", Type: "warrior", Location: strategy.Location{X: 7, Y: 8}, Owner: strategy.SideAI}},
		}},
		Map: strategy.WorldMap{Size: strategy.MapSize{Width: 10, Height: 10}, Explored: explored},
	}
}

func TestResolve_NormalizesOracleSequence(t *testing.T) {
	oracle := &stubOracle{reply: "Expanding east.\n```json\n" + `{
		"actions": [
			{"type": "moveUnit", "details": {"unitId": "ai_unit_1", "destination": {"x": 8, "y": 8}}},
			{"type": "moveUnit", "details": {"unitId": "player_unit_1", "destination": {"x": 0, "y": 0}}},
			{"type": "trainUnit", "details": {"cityId": "ghost_city", "unitType": "archer"}},
			{"type": "researchTechnology", "details": {"technology": "Pottery"}}
		]
	}` + "\n```"}
	seq := Resolver{Oracle: oracle}.Resolve(context.Background(), resolverState())

	if len(seq) != 3 {
		t.Fatalf("expected 3 sequenced actions, got %d", len(seq))
	}
	for i, s := range seq {
		if s.ID != i+1 {
			t.Fatalf("action %d has id %d", i, s.ID)
		}
	}
	if seq[0].ActionType != strategy.ActionMoveUnit {
		t.Fatalf("unexpected first action %q", seq[0].ActionType)
	}
	if seq[0].Entity == nil || seq[0].Entity.ID != "ai_unit_1" || seq[0].Entity.Type != "unit" {
		t.Fatalf("unexpected entity ref %+v", seq[0].Entity)
	}
	if len(seq[0].Path) != 1 || seq[0].Path[0] != (strategy.Location{X: 8, Y: 8}) {
		t.Fatalf("unexpected path %+v", seq[0].Path)
	}
	if seq[1].ActionType != strategy.ActionResearchTechnology {
		t.Fatalf("player-owned and unknown-city actions should be dropped, got %q", seq[1].ActionType)
	}
	if seq[2].ActionType != strategy.ActionEndTurn {
		t.Fatalf("sequence must end with endTurn, got %q", seq[2].ActionType)
	}
	if !strings.Contains(oracle.prompt.User, "<game_state>") {
		t.Fatal("oracle prompt missing game state block")
	}
}

func TestResolve_KeepsExistingEndTurn(t *testing.T) {
	oracle := &stubOracle{reply: `{"actions": [{"type": "endTurn", "details": {}}]}`}
	seq := Resolver{Oracle: oracle}.Resolve(context.Background(), resolverState())
	if len(seq) != 1 || seq[0].ActionType != strategy.ActionEndTurn {
		t.Fatalf("expected single endTurn, got %+v", seq)
	}
}

func TestResolve_OracleFailureFallsBack(t *testing.T) {
	for name, oracle := range map[string]ports.DecisionOracle{
		"nil oracle":    nil,
		"oracle error":  &stubOracle{err: errors.New("upstream timeout")},
		"no json":       &stubOracle{reply: "I cannot decide right now."},
		"empty actions": &stubOracle{reply: `{"actions": []}`},
		"bad shapes":    &stubOracle{reply: `{"actions": [{"kind": "moveUnit"}, "endTurn"]}`},
	} {
		seq := Resolver{Oracle: oracle}.Resolve(context.Background(), resolverState())
		if len(seq) != 2 {
			t.Fatalf("%s: expected fallback pair, got %+v", name, seq)
		}
		if seq[0].ActionType != strategy.ActionMoveUnit || seq[1].ActionType != strategy.ActionEndTurn {
			t.Fatalf("%s: unexpected fallback sequence %+v", name, seq)
		}
	}
}

func TestResolve_AllActionsDroppedFallsBack(t *testing.T) {
	oracle := &stubOracle{reply: `{"actions": [{"type": "moveUnit", "details": {"unitId": "player_unit_1"}}]}`}
	seq := Resolver{Oracle: oracle}.Resolve(context.Background(), resolverState())
	if len(seq) != 2 || seq[0].ActionType != strategy.ActionMoveUnit || seq[0].Entity.ID != "ai_unit_1" {
		t.Fatalf("expected fallback move for ai_unit_1, got %+v", seq)
	}
}

func TestFallbackActions_Progression(t *testing.T) {
	gs := resolverState()

	gs.AI[0].Cities = nil
	gs.AI[0].Units = nil
	acts := fallbackActions(gs)
	if acts[0].Type != strategy.ActionFoundCity {
		t.Fatalf("expected foundCity, got %q", acts[0].Type)
	}
	if *acts[0].Details.Location != (strategy.Location{X: 5, Y: 5}) {
		t.Fatalf("expected map center, got %+v", acts[0].Details.Location)
	}

	gs = resolverState()
	gs.AI[0].Units = nil
	acts = fallbackActions(gs)
	if acts[0].Type != strategy.ActionTrainUnit || acts[0].Details.CityID != "ai_city_1" {
		t.Fatalf("expected trainUnit at ai_city_1, got %+v", acts[0])
	}

	gs = resolverState()
	gs.AI[0].Units[0].Location = strategy.Location{X: 9, Y: 9}
	acts = fallbackActions(gs)
	if acts[0].Type != strategy.ActionMoveUnit {
		t.Fatalf("expected moveUnit, got %q", acts[0].Type)
	}
	if *acts[0].Details.Destination != (strategy.Location{X: 0, Y: 0}) {
		t.Fatalf("diagonal move should wrap at the map edge, got %+v", acts[0].Details.Destination)
	}

	if last := acts[len(acts)-1]; last.Type != strategy.ActionEndTurn {
		t.Fatalf("fallback must close with endTurn, got %q", last.Type)
	}
}

func TestResolve_SeedsMissingAIRoster(t *testing.T) {
	gs := resolverState()
	gs.AI = nil
	seq := Resolver{}.Resolve(context.Background(), gs)
	if len(seq) != 2 || seq[0].ActionType != strategy.ActionFoundCity {
		t.Fatalf("expected foundCity fallback for empty roster, got %+v", seq)
	}
}
