package strategy

import (
	"reflect"
	"testing"
)

func testPlayers() []ReducedPlayer {
	return []ReducedPlayer{
		{
			ID: "player",
			Cities: []City{{
				ID: "player_city_1", Location: Location{X: 2, Y: 3},
				Buildings: []string{"granary"}, Population: 5, Owner: SidePlayer,
			}},
			Units: []Unit{{
				ID: "player_unit_1", Type: "warrior",
				Location: Location{X: 2, Y: 4}, Owner: SidePlayer, MovementPoints: 2,
			}},
		},
		{
			ID: "ai",
			Cities: []City{{
				ID: "ai_city_1", Location: Location{X: 7, Y: 7},
				Buildings: []string{}, Population: 2, Owner: SideAI,
			}},
			Units: []Unit{{
				ID: "ai_unit_1", Type: "warrior",
				Location: Location{X: 7, Y: 8}, Owner: SideAI, MovementPoints: 2,
			}},
		},
		{
			ID:     "ai2",
			Cities: []City{},
			Units:  []Unit{},
		},
	}
}

func marshalPlayers(t *testing.T, players []ReducedPlayer) string {
	t.Helper()
	// Round-trip through the wire shape the oracle is asked to return.
	return string(mustJSON(t, players))
}

func TestMergePlayers_RemovedPlayerKeepsOriginalList(t *testing.T) {
	original := testPlayers()
	proposed := testPlayers()[:2]

	merged := MergePlayers(original, marshalPlayers(t, proposed))
	if len(merged) != 3 {
		t.Fatalf("expected 3 players, got %d", len(merged))
	}
	if !reflect.DeepEqual(merged, original) {
		t.Fatalf("dropped player must reject the whole proposal: %+v", merged)
	}
}

func TestMergePlayers_AILeafValuesCopied(t *testing.T) {
	original := testPlayers()
	proposed := testPlayers()
	proposed[1].Cities[0].Population = 4
	proposed[1].Units[0].Location = Location{X: 8, Y: 8}

	merged := MergePlayers(original, marshalPlayers(t, proposed))
	if merged[1].Cities[0].Population != 4 {
		t.Fatalf("AI city population not merged: %+v", merged[1].Cities[0])
	}
	if merged[1].Units[0].Location != (Location{X: 8, Y: 8}) {
		t.Fatalf("AI unit location not merged: %+v", merged[1].Units[0])
	}
}

func TestMergePlayers_PlayerEntitiesNeverChange(t *testing.T) {
	original := testPlayers()
	proposed := testPlayers()
	proposed[0].Cities[0].Population = 999
	proposed[0].Units[0].Location = Location{X: 0, Y: 0}

	merged := MergePlayers(original, marshalPlayers(t, proposed))
	if !reflect.DeepEqual(merged[0], original[0]) {
		t.Fatalf("player entities mutated by merge: %+v", merged[0])
	}
}

func TestMergePlayers_StructuralChangesOnAIEntitiesRejected(t *testing.T) {
	original := testPlayers()

	// Extra unit on the AI side: whole unit list kept verbatim.
	proposed := testPlayers()
	proposed[1].Units = append(proposed[1].Units, Unit{ID: "ai_unit_99"})
	merged := MergePlayers(original, marshalPlayers(t, proposed))
	if !reflect.DeepEqual(merged[1].Units, original[1].Units) {
		t.Fatalf("added unit leaked through merge: %+v", merged[1].Units)
	}

	// Renamed entity id: that entity kept verbatim.
	proposed = testPlayers()
	proposed[1].Cities[0].ID = "ai_city_renamed"
	proposed[1].Cities[0].Population = 4
	merged = MergePlayers(original, marshalPlayers(t, proposed))
	if !reflect.DeepEqual(merged[1].Cities, original[1].Cities) {
		t.Fatalf("renamed city leaked through merge: %+v", merged[1].Cities)
	}
}

func TestMergePlayers_ListLeavesKeepOriginal(t *testing.T) {
	original := testPlayers()
	proposed := testPlayers()
	proposed[1].Cities[0].Buildings = []string{"barracks", "walls"}

	merged := MergePlayers(original, marshalPlayers(t, proposed))
	if !reflect.DeepEqual(merged[1].Cities[0].Buildings, original[1].Cities[0].Buildings) {
		t.Fatalf("list-valued field must keep original: %+v", merged[1].Cities[0].Buildings)
	}
}

func TestMergePlayers_ContaminatedRawAbortsMerge(t *testing.T) {
	original := testPlayers()
	cases := []string{
		"```json\n[{\"id\":\"player\"}]\n```",
		"\n[{\"id\":\"player\"}]",
		"Here is my plan: [...]",
		"not json at all",
	}
	for _, raw := range cases {
		merged := MergePlayers(original, raw)
		if !reflect.DeepEqual(merged, original) {
			t.Fatalf("contaminated raw %q must return original unchanged", raw)
		}
	}
}

func TestMergePlayers_AcceptsPlayersEnvelope(t *testing.T) {
	original := testPlayers()
	proposed := testPlayers()
	proposed[1].Cities[0].Population = 3

	raw := string(mustJSON(t, map[string]any{"players": proposed}))
	merged := MergePlayers(original, raw)
	if merged[1].Cities[0].Population != 3 {
		t.Fatalf("players envelope not accepted: %+v", merged[1].Cities[0])
	}
}

func TestReducedPlayersRoundTrip(t *testing.T) {
	gs := testState()
	players := ReducedPlayersFromState(gs)
	if len(players) != 2 || players[0].ID != "player" || players[1].ID != "ai" {
		t.Fatalf("unexpected projection: %+v", players)
	}

	players[1].Cities[0].Population = 42
	ApplyMergedPlayers(&gs, players)
	if gs.AI[0].Cities[0].Population != 42 {
		t.Fatalf("merged AI roster not written back: %+v", gs.AI[0].Cities[0])
	}
	if gs.Player.Cities[0].Population != 5 {
		t.Fatalf("player roster must be untouched: %+v", gs.Player.Cities[0])
	}
}

func TestReducedPlayers_MultiAISideIDs(t *testing.T) {
	gs := testState()
	for len(gs.AI) < 10 {
		gs.AI = append(gs.AI, Roster{})
	}
	players := ReducedPlayersFromState(gs)
	want := []string{"player", "ai", "ai2", "ai3", "ai4", "ai5", "ai6", "ai7", "ai8", "ai9", "ai10"}
	if len(players) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(players))
	}
	for i, p := range players {
		if p.ID != want[i] {
			t.Fatalf("entry %d: got id %q, want %q", i, p.ID, want[i])
		}
	}
}
