package aiturn

import "stratforge/internal/domain/strategy"

const (
	FocusExpansion = "expansion"
	FocusEconomy   = "economy"
	FocusCombat    = "combat"
)

// ResourcesGained is the flat yield estimate for the turn: improvements
// grant food or production per resource type, research grants science.
type ResourcesGained struct {
	Food       int `json:"food"`
	Production int `json:"production"`
	Science    int `json:"science"`
}

type CombatResult struct {
	Location *strategy.Location `json:"location"`
	Outcome  string             `json:"outcome"`
}

// TurnSummary condenses the AI's resolved sequence for the end-turn
// reply: how much it did and where its attention went.
type TurnSummary struct {
	TotalActions        int             `json:"total_actions"`
	MainFocus           string          `json:"main_focus"`
	ResourcesGained     ResourcesGained `json:"resources_gained"`
	TerritoriesExplored int             `json:"territories_explored"`
	CombatResults       []CombatResult  `json:"combat_results"`
}

// Summarize derives the summary from a normalized sequence. The focus
// heuristic follows the last focus-bearing action; endTurn and research
// leave it unchanged. Territories are distinct move destinations.
func Summarize(seq []SequencedAction) TurnSummary {
	s := TurnSummary{
		TotalActions:  len(seq),
		MainFocus:     FocusExpansion,
		CombatResults: []CombatResult{},
	}
	explored := map[strategy.Location]struct{}{}
	for _, entry := range seq {
		details := entry.Action.Details
		switch entry.ActionType {
		case strategy.ActionMoveUnit:
			if details.Destination != nil {
				explored[*details.Destination] = struct{}{}
			}
			s.MainFocus = FocusExpansion
		case strategy.ActionFoundCity:
			s.MainFocus = FocusExpansion
		case strategy.ActionBuildStructure:
			s.MainFocus = FocusEconomy
		case strategy.ActionImproveResource:
			switch details.ResourceType {
			case "wheat":
				s.ResourcesGained.Food += 2
			case "iron":
				s.ResourcesGained.Production += 2
			}
			s.MainFocus = FocusEconomy
		case strategy.ActionResearchTechnology:
			s.ResourcesGained.Science++
		case strategy.ActionAttackEnemy:
			// The applier resolves hits after the fact, so the sequence
			// itself cannot name an outcome.
			s.CombatResults = append(s.CombatResults, CombatResult{
				Location: details.Location,
				Outcome:  "unknown",
			})
			s.MainFocus = FocusCombat
		}
	}
	s.TerritoriesExplored = len(explored)
	return s
}
