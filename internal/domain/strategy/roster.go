package strategy

import "strings"

// IsAISide reports whether a side tag names an AI-controlled roster. Side
// tags follow the id convention "ai", "ai2", ... for AI opponents.
func IsAISide(side string) bool {
	return strings.HasPrefix(side, SideAI)
}

func (r *Roster) FindCity(id string) *City {
	for i := range r.Cities {
		if r.Cities[i].ID == id {
			return &r.Cities[i]
		}
	}
	return nil
}

func (r *Roster) FindUnit(id string) *Unit {
	for i := range r.Units {
		if r.Units[i].ID == id {
			return &r.Units[i]
		}
	}
	return nil
}

func (r *Roster) HasTechnology(name string) bool {
	for _, t := range r.Technologies {
		if t.Name == name {
			return true
		}
	}
	return false
}

// EnsureAIRoster seeds the AI roster list with one empty roster so that
// the AI side always has a legal action target. Older saves persisted no
// list at all.
func (g *GameState) EnsureAIRoster() {
	if len(g.AI) == 0 {
		g.AI = []Roster{{
			Cities:       []City{},
			Units:        []Unit{},
			Technologies: []Technology{},
			Resources:    map[string]Resource{},
		}}
	}
}

// RosterForSide resolves the acting roster for a side tag. AI sides all
// resolve to roster index 0; only the first AI roster ever takes a turn.
func (g *GameState) RosterForSide(side string) *Roster {
	if side == SidePlayer {
		return &g.Player
	}
	g.EnsureAIRoster()
	return &g.AI[0]
}

// OpposingRosters returns every roster the given side may attack.
func (g *GameState) OpposingRosters(side string) []*Roster {
	if side == SidePlayer {
		g.EnsureAIRoster()
		out := make([]*Roster, 0, len(g.AI))
		for i := range g.AI {
			out = append(out, &g.AI[i])
		}
		return out
	}
	return []*Roster{&g.Player}
}
