package strategy

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidStateShape = errors.New("invalid game state shape")

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// StateShapeError itemizes every missing or invalid field found while
// checking a persisted state. The engine refuses to run a turn on a
// partially valid state.
type StateShapeError struct {
	Fields []FieldError
}

func (e *StateShapeError) Error() string {
	return ErrInvalidStateShape.Error()
}

func (e *StateShapeError) Unwrap() error {
	return ErrInvalidStateShape
}

// DecodeState parses a raw JSON state and validates its structural shape.
func DecodeState(raw []byte) (GameState, error) {
	var gs GameState
	if err := json.Unmarshal(raw, &gs); err != nil {
		return GameState{}, &StateShapeError{Fields: []FieldError{{Field: "game_state", Reason: err.Error()}}}
	}
	if err := ValidateState(gs); err != nil {
		return GameState{}, err
	}
	return gs, nil
}

// ValidateState checks the invariants every stored state must satisfy:
// positive turn counter, a current-player marker, explored grid matching
// the declared map size, and unique city/unit ids per roster.
func ValidateState(gs GameState) error {
	var fields []FieldError

	if gs.Turn < 1 {
		fields = append(fields, FieldError{Field: "turn", Reason: "must be >= 1"})
	}
	if gs.CurrentPlayer == "" {
		fields = append(fields, FieldError{Field: "current_player", Reason: "missing"})
	}
	if gs.Map.Size.Width <= 0 || gs.Map.Size.Height <= 0 {
		fields = append(fields, FieldError{Field: "map.size", Reason: "width and height must be positive"})
	} else {
		fields = append(fields, validateExplored(gs.Map)...)
	}

	fields = append(fields, validateRoster("player", gs.Player)...)
	for i, r := range gs.AI {
		fields = append(fields, validateRoster(fmt.Sprintf("ai[%d]", i), r)...)
	}

	if len(fields) > 0 {
		return &StateShapeError{Fields: fields}
	}
	return nil
}

func validateExplored(m WorldMap) []FieldError {
	if len(m.Explored) != m.Size.Height {
		return []FieldError{{
			Field:  "map.explored",
			Reason: fmt.Sprintf("expected %d rows, got %d", m.Size.Height, len(m.Explored)),
		}}
	}
	var fields []FieldError
	for y, row := range m.Explored {
		if len(row) != m.Size.Width {
			fields = append(fields, FieldError{
				Field:  fmt.Sprintf("map.explored[%d]", y),
				Reason: fmt.Sprintf("expected %d columns, got %d", m.Size.Width, len(row)),
			})
			continue
		}
		for x, v := range row {
			if v != 0 && v != 1 {
				fields = append(fields, FieldError{
					Field:  fmt.Sprintf("map.explored[%d][%d]", y, x),
					Reason: "must be 0 or 1",
				})
			}
		}
	}
	return fields
}

func validateRoster(prefix string, r Roster) []FieldError {
	var fields []FieldError
	cityIDs := map[string]bool{}
	for i, c := range r.Cities {
		if c.ID == "" {
			fields = append(fields, FieldError{Field: fmt.Sprintf("%s.cities[%d].id", prefix, i), Reason: "missing"})
			continue
		}
		if cityIDs[c.ID] {
			fields = append(fields, FieldError{Field: fmt.Sprintf("%s.cities[%d].id", prefix, i), Reason: "duplicate id " + c.ID})
		}
		cityIDs[c.ID] = true
	}
	unitIDs := map[string]bool{}
	for i, u := range r.Units {
		if u.ID == "" {
			fields = append(fields, FieldError{Field: fmt.Sprintf("%s.units[%d].id", prefix, i), Reason: "missing"})
			continue
		}
		if unitIDs[u.ID] {
			fields = append(fields, FieldError{Field: fmt.Sprintf("%s.units[%d].id", prefix, i), Reason: "duplicate id " + u.ID})
		}
		unitIDs[u.ID] = true
	}
	return fields
}
