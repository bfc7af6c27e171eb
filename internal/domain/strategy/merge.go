package strategy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReducedPlayer is one side's roster as exchanged with the oracle in
// whole-roster mode: the oracle receives every side and is asked to
// return a complete next state instead of an action list.
type ReducedPlayer struct {
	ID     string `json:"id"`
	Cities []City `json:"cities"`
	Units  []Unit `json:"units"`
}

// ReducedPlayersFromState projects the state into the whole-roster wire
// shape, player first, AI sides in order.
func ReducedPlayersFromState(gs GameState) []ReducedPlayer {
	out := []ReducedPlayer{{
		ID:     SidePlayer,
		Cities: gs.Player.Clone().Cities,
		Units:  cloneSlice(gs.Player.Units),
	}}
	for i, r := range gs.AI {
		id := SideAI
		if i > 0 {
			id = fmt.Sprintf("%s%d", SideAI, i+1)
		}
		out = append(out, ReducedPlayer{
			ID:     id,
			Cities: r.Clone().Cities,
			Units:  cloneSlice(r.Units),
		})
	}
	return out
}

// ApplyMergedPlayers writes AI entries of a merged player list back into
// the state. The player entry is never written back; the merge guard
// keeps it identical to the original by construction.
func ApplyMergedPlayers(gs *GameState, merged []ReducedPlayer) {
	gs.EnsureAIRoster()
	ai := 0
	for _, p := range merged {
		if !IsAISide(p.ID) {
			continue
		}
		if ai >= len(gs.AI) {
			break
		}
		gs.AI[ai].Cities = p.Cities
		gs.AI[ai].Units = p.Units
		ai++
	}
}

// MergePlayers merges an oracle-proposed whole-roster next state into the
// original player list. The oracle is an untrusted text generator: it may
// drop or invent entities, rename fields, or wrap its answer in prose.
// The guard makes any structural change impossible; only same-typed leaf
// values on AI-owned entities ever cross over.
//
// Raw responses contaminated with formatting artifacts (code fences, or
// anything before the JSON starts) abort the merge entirely and the
// original list is returned unchanged.
func MergePlayers(original []ReducedPlayer, raw string) []ReducedPlayer {
	out := cloneReducedPlayers(original)
	if rawContaminated(raw) {
		return out
	}
	proposed, ok := decodeProposedPlayers(raw)
	if !ok || len(proposed) != len(original) {
		return out
	}
	for i := range original {
		if !IsAISide(original[i].ID) {
			continue
		}
		if id, _ := proposed[i]["id"].(string); id != original[i].ID {
			continue
		}
		out[i].Cities = mergeCityList(original[i].Cities, proposed[i]["cities"])
		out[i].Units = mergeUnitList(original[i].Units, proposed[i]["units"])
	}
	return out
}

func rawContaminated(raw string) bool {
	if strings.Contains(raw, "```") {
		return true
	}
	return !strings.HasPrefix(raw, "{") && !strings.HasPrefix(raw, "[")
}

func decodeProposedPlayers(raw string) ([]map[string]any, bool) {
	var list []map[string]any
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list, true
	}
	var envelope struct {
		Players []map[string]any `json:"players"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil && envelope.Players != nil {
		return envelope.Players, true
	}
	return nil, false
}

func cloneReducedPlayers(players []ReducedPlayer) []ReducedPlayer {
	out := make([]ReducedPlayer, len(players))
	for i, p := range players {
		cities := p.Cities
		if cities != nil {
			cities = make([]City, len(p.Cities))
			for j := range p.Cities {
				cities[j] = p.Cities[j].Clone()
			}
		}
		out[i] = ReducedPlayer{
			ID:     p.ID,
			Cities: cities,
			Units:  cloneSlice(p.Units),
		}
	}
	return out
}

func mergeCityList(original []City, proposed any) []City {
	rows, ok := entityRows(proposed, len(original))
	if !ok {
		return original
	}
	out := make([]City, len(original))
	for i := range original {
		out[i] = original[i]
		merged, ok := mergeEntity(original[i], rows[i])
		if !ok {
			continue
		}
		var c City
		if remarshal(merged, &c) {
			out[i] = c
		}
	}
	return out
}

func mergeUnitList(original []Unit, proposed any) []Unit {
	rows, ok := entityRows(proposed, len(original))
	if !ok {
		return original
	}
	out := make([]Unit, len(original))
	for i := range original {
		out[i] = original[i]
		merged, ok := mergeEntity(original[i], rows[i])
		if !ok {
			continue
		}
		var u Unit
		if remarshal(merged, &u) {
			out[i] = u
		}
	}
	return out
}

// entityRows accepts a proposed entity list only when it is a JSON array
// of objects with exactly the original length. Added or removed entities
// reject the whole list.
func entityRows(proposed any, want int) ([]map[string]any, bool) {
	list, ok := proposed.([]any)
	if !ok || len(list) != want {
		return nil, false
	}
	rows := make([]map[string]any, len(list))
	for i, v := range list {
		row, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		rows[i] = row
	}
	return rows, true
}

// mergeEntity merges one proposed entity into the original. The entity is
// rejected wholesale when its id changed or its key set deviates from the
// original (renamed, added or removed fields). Accepted entities copy
// same-typed leaf values field by field; a type mismatch keeps the
// original value. No field is ever added or removed.
func mergeEntity(original any, proposed map[string]any) (map[string]any, bool) {
	var origMap map[string]any
	if !remarshalTo(original, &origMap) {
		return nil, false
	}
	if id, _ := proposed["id"].(string); id != origMap["id"] {
		return nil, false
	}
	if len(proposed) != len(origMap) {
		return nil, false
	}
	for key := range origMap {
		if _, ok := proposed[key]; !ok {
			return nil, false
		}
	}
	return mergeLeaves(origMap, proposed), true
}

func mergeLeaves(orig, proposed map[string]any) map[string]any {
	out := make(map[string]any, len(orig))
	for key, ov := range orig {
		out[key] = ov
		pv, ok := proposed[key]
		if !ok {
			continue
		}
		switch o := ov.(type) {
		case map[string]any:
			if p, ok := pv.(map[string]any); ok {
				out[key] = mergeLeaves(o, p)
			}
		case []any:
			// Lists are structural: length or order changes are rejected,
			// so the original list is kept verbatim.
		case string:
			if p, ok := pv.(string); ok {
				out[key] = p
			}
		case bool:
			if p, ok := pv.(bool); ok {
				out[key] = p
			}
		case float64:
			if p, ok := pv.(float64); ok {
				out[key] = p
			}
		}
	}
	return out
}

func remarshal(src map[string]any, dst any) bool {
	b, err := json.Marshal(src)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func remarshalTo(src any, dst *map[string]any) bool {
	b, err := json.Marshal(src)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}
