package strategy

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultMovementPoints is granted to every freshly trained unit.
	DefaultMovementPoints = 2
	// DefaultTrainQuantity applies when trainUnit omits quantity.
	DefaultTrainQuantity = 1
	// FoundCityRevealRadius is the fog reveal around a side's first city.
	FoundCityRevealRadius = 2
)

// ApplyConfig selects the acting side and the side-specific variants of
// the apply rules.
type ApplyConfig struct {
	// Side is the acting side tag: SidePlayer or an AI side id.
	Side string
	// SilentAttackMiss suppresses the attackEnemy miss error. Oracle-driven
	// batches never surface misses to the caller.
	SilentAttackMiss bool
	// PickFoundLocation supplies a location for foundCity when the action
	// omits one. Nil means a missing location is a validation error.
	PickFoundLocation func(explored [][]int) Location
}

type applyFunc func(gs *GameState, a Action, cfg ApplyConfig) *ActionError

func applyRegistry() map[ActionType]applyFunc {
	return map[ActionType]applyFunc{
		ActionMoveUnit:           applyMoveUnit,
		ActionBuildStructure:     applyBuildStructure,
		ActionTrainUnit:          applyTrainUnit,
		ActionImproveResource:    applyImproveResource,
		ActionResearchTechnology: applyResearchTechnology,
		ActionFoundCity:          applyFoundCity,
		ActionAttackEnemy:        applyAttackEnemy,
		ActionEndTurn:            applyEndTurn,
	}
}

// Apply runs an ordered action batch for one side against a deep copy of
// the state. Later actions observe the effects of earlier ones. A failed
// action is recorded and the batch continues; the returned state reflects
// every action that succeeded.
func Apply(gs GameState, actions []Action, cfg ApplyConfig) (GameState, []ActionError) {
	next := gs.Clone()
	registry := applyRegistry()
	var errs []ActionError
	for _, a := range actions {
		fn, ok := registry[a.Type]
		if !ok {
			errs = append(errs, ActionError{
				Action:  a.Type,
				Details: a.Details,
				Kind:    ErrorKindValidation,
				Message: fmt.Sprintf("unknown action type %q", a.Type),
			})
			continue
		}
		if aerr := fn(&next, a, cfg); aerr != nil {
			errs = append(errs, *aerr)
		}
	}
	return next, errs
}

func actionError(a Action, kind ErrorKind, format string, args ...any) *ActionError {
	return &ActionError{
		Action:  a.Type,
		Details: a.Details,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func applyMoveUnit(gs *GameState, a Action, cfg ApplyConfig) *ActionError {
	if a.Details.UnitID == "" {
		return actionError(a, ErrorKindValidation, "moveUnit requires unitId")
	}
	if a.Details.Destination == nil {
		return actionError(a, ErrorKindValidation, "moveUnit requires destination")
	}
	unit := gs.RosterForSide(cfg.Side).FindUnit(a.Details.UnitID)
	if unit == nil {
		return actionError(a, ErrorKindNotFound, "unit %q not found for side %q", a.Details.UnitID, cfg.Side)
	}
	unit.Location = *a.Details.Destination
	return nil
}

func applyBuildStructure(gs *GameState, a Action, cfg ApplyConfig) *ActionError {
	if a.Details.CityID == "" {
		return actionError(a, ErrorKindValidation, "buildStructure requires cityId")
	}
	if a.Details.StructureType == "" {
		return actionError(a, ErrorKindValidation, "buildStructure requires structureType")
	}
	city := gs.RosterForSide(cfg.Side).FindCity(a.Details.CityID)
	if city == nil {
		return actionError(a, ErrorKindNotFound, "city %q not found for side %q", a.Details.CityID, cfg.Side)
	}
	city.Buildings = append(city.Buildings, a.Details.StructureType)
	return nil
}

func applyTrainUnit(gs *GameState, a Action, cfg ApplyConfig) *ActionError {
	if a.Details.CityID == "" {
		return actionError(a, ErrorKindValidation, "trainUnit requires cityId")
	}
	if a.Details.UnitType == "" {
		return actionError(a, ErrorKindValidation, "trainUnit requires unitType")
	}
	roster := gs.RosterForSide(cfg.Side)
	city := roster.FindCity(a.Details.CityID)
	if city == nil {
		return actionError(a, ErrorKindNotFound, "city %q not found for side %q", a.Details.CityID, cfg.Side)
	}
	quantity := a.Details.Quantity
	if quantity <= 0 {
		quantity = DefaultTrainQuantity
	}
	for i := 0; i < quantity; i++ {
		roster.Units = append(roster.Units, Unit{
			ID:             nextUnitID(roster, cfg.Side),
			Type:           a.Details.UnitType,
			Location:       city.Location,
			Owner:          cfg.Side,
			MovementPoints: DefaultMovementPoints,
		})
	}
	return nil
}

// nextUnitID continues the "<side>_unit_<n>" series past the highest
// suffix still present in the roster. Counting units instead would reuse
// the id of a fallen unit after attackEnemy shrinks the list.
func nextUnitID(roster *Roster, side string) string {
	prefix := side + "_unit_"
	max := 0
	for _, u := range roster.Units {
		if !strings.HasPrefix(u.ID, prefix) {
			continue
		}
		if n, err := strconv.Atoi(u.ID[len(prefix):]); err == nil && n > max {
			max = n
		}
	}
	return prefix + strconv.Itoa(max+1)
}

func applyImproveResource(gs *GameState, a Action, cfg ApplyConfig) *ActionError {
	if a.Details.ResourceType == "" {
		return actionError(a, ErrorKindValidation, "improveResource requires resourceType")
	}
	roster := gs.RosterForSide(cfg.Side)
	res, ok := roster.Resources[a.Details.ResourceType]
	if !ok {
		return actionError(a, ErrorKindNotFound, "resource %q not found for side %q", a.Details.ResourceType, cfg.Side)
	}
	res.Improved = true
	roster.Resources[a.Details.ResourceType] = res
	return nil
}

func applyResearchTechnology(gs *GameState, a Action, cfg ApplyConfig) *ActionError {
	if a.Details.Technology == "" {
		return actionError(a, ErrorKindValidation, "researchTechnology requires technology")
	}
	roster := gs.RosterForSide(cfg.Side)
	if roster.HasTechnology(a.Details.Technology) {
		return actionError(a, ErrorKindValidation, "technology %q already researched", a.Details.Technology)
	}
	roster.Technologies = append(roster.Technologies, Technology{Name: a.Details.Technology})
	return nil
}

func applyFoundCity(gs *GameState, a Action, cfg ApplyConfig) *ActionError {
	var loc Location
	switch {
	case a.Details.Location != nil:
		loc = *a.Details.Location
	case cfg.PickFoundLocation != nil:
		loc = cfg.PickFoundLocation(gs.Map.Explored)
	default:
		return actionError(a, ErrorKindValidation, "foundCity requires location")
	}
	roster := gs.RosterForSide(cfg.Side)
	cityID := a.Details.CityID
	if cityID == "" {
		cityID = fmt.Sprintf("%s_city_%d", cfg.Side, len(roster.Cities)+1)
	}
	if roster.FindCity(cityID) != nil {
		return actionError(a, ErrorKindValidation, "city %q already exists", cityID)
	}
	firstCity := len(roster.Cities) == 0
	roster.Cities = append(roster.Cities, City{
		ID:         cityID,
		Location:   loc,
		Buildings:  []string{},
		Population: 1,
		Owner:      cfg.Side,
	})
	if firstCity {
		RevealRadius(gs.Map.Explored, loc, FoundCityRevealRadius)
	}
	return nil
}

func applyAttackEnemy(gs *GameState, a Action, cfg ApplyConfig) *ActionError {
	if a.Details.Location == nil {
		return actionError(a, ErrorKindValidation, "attackEnemy requires location")
	}
	target := *a.Details.Location
	removed := 0
	for _, roster := range gs.OpposingRosters(cfg.Side) {
		kept := roster.Units[:0]
		for _, u := range roster.Units {
			if u.Location == target {
				removed++
				continue
			}
			kept = append(kept, u)
		}
		roster.Units = kept
	}
	if removed == 0 && !cfg.SilentAttackMiss {
		return actionError(a, ErrorKindValidation, "no enemy unit at (%d,%d)", target.X, target.Y)
	}
	return nil
}

// endTurn carries no state change of its own; turn advancement belongs to
// the orchestrator. Accepting it here keeps oracle sequences applicable
// verbatim.
func applyEndTurn(*GameState, Action, ApplyConfig) *ActionError {
	return nil
}
