package strategy

import "time"

const SidePlayer = "player"
const SideAI = "ai"

// Location is a tile coordinate on the world map.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type MapSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WorldMap holds the map dimensions and the player's fog-of-war bitmap.
// Explored is indexed [y][x] and must match Size exactly; 1 means revealed.
// VisibleObjects is opaque to the engine and carried through untouched.
type WorldMap struct {
	Size           MapSize          `json:"size"`
	Explored       [][]int          `json:"explored"`
	VisibleObjects []map[string]any `json:"visible_objects"`
}

type City struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	Location   Location `json:"location"`
	Buildings  []string `json:"buildings"`
	Population int      `json:"population"`
	Growth     int      `json:"growth,omitempty"`
	Owner      string   `json:"owner"`
}

type Unit struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Location       Location `json:"location"`
	Owner          string   `json:"owner"`
	MovementPoints int      `json:"movement_points"`
	Health         int      `json:"health,omitempty"`
}

type Technology struct {
	Name           string `json:"name"`
	TurnsRemaining int    `json:"turns_remaining"`
}

type Resource struct {
	Location *Location `json:"location,omitempty"`
	Improved bool      `json:"improved"`
}

// Roster is the set of cities, units, technologies and resources owned by
// one side. City and unit ids are unique within a roster.
type Roster struct {
	Cities       []City              `json:"cities"`
	Units        []Unit              `json:"units"`
	Technologies []Technology        `json:"technologies"`
	Resources    map[string]Resource `json:"resources"`
}

// GameState is the root aggregate for one game instance. AI holds one
// roster per AI-controlled side; older saves carried a single roster, so
// the list is lazily seeded with one empty roster before AI processing.
type GameState struct {
	Turn          int      `json:"turn"`
	CurrentPlayer string   `json:"current_player"`
	Player        Roster   `json:"player"`
	AI            []Roster `json:"ai"`
	Map           WorldMap `json:"map"`
}

// GameRecord is the persisted envelope around a GameState. Version backs
// the storage adapters' optimistic conditional write.
type GameRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	ScenarioID string    `json:"scenario_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSaved  time.Time `json:"last_saved"`
	IsAutosave bool      `json:"is_autosave"`
	CheatsUsed []string  `json:"cheats_used"`
	State      GameState `json:"game_state"`
	Version    int64     `json:"version"`
}

type Scenario struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Difficulty   string    `json:"difficulty"`
	MapSize      MapSize   `json:"map_size"`
	InitialState GameState `json:"initial_state"`
}
