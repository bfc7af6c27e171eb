package aiturn

import "stratforge/internal/domain/strategy"

// maxOpponentEntities truncates the opponent's asset lists in the
// projection; the oracle payload stays bounded regardless of game size.
const maxOpponentEntities = 5

type projectionMap struct {
	Size          strategy.MapSize `json:"size"`
	ExploredTiles int              `json:"explored_tiles"`
}

type opponentView struct {
	Cities []strategy.City `json:"cities"`
	Units  []strategy.Unit `json:"units"`
}

type ownView struct {
	Cities       []strategy.City              `json:"cities"`
	Units        []strategy.Unit              `json:"units"`
	Technologies []strategy.Technology        `json:"technologies"`
	Resources    map[string]strategy.Resource `json:"resources"`
}

// Projection is the reduced game state sent to the oracle: turn markers,
// aggregate map coverage, a truncated view of the player's assets and the
// AI's own full roster.
type Projection struct {
	Turn          int           `json:"turn"`
	CurrentPlayer string        `json:"current_player"`
	Map           projectionMap `json:"map"`
	Opponent      opponentView  `json:"opponent"`
	Own           ownView       `json:"own"`
}

func project(gs strategy.GameState) Projection {
	explored := 0
	for _, row := range gs.Map.Explored {
		for _, v := range row {
			if v == 1 {
				explored++
			}
		}
	}
	own := gs.AI[0]
	return Projection{
		Turn:          gs.Turn,
		CurrentPlayer: gs.CurrentPlayer,
		Map: projectionMap{
			Size:          gs.Map.Size,
			ExploredTiles: explored,
		},
		Opponent: opponentView{
			Cities: truncate(gs.Player.Cities, maxOpponentEntities),
			Units:  truncate(gs.Player.Units, maxOpponentEntities),
		},
		Own: ownView{
			Cities:       own.Cities,
			Units:        own.Units,
			Technologies: own.Technologies,
			Resources:    own.Resources,
		},
	}
}

func truncate[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
