package strategy

type ActionType string

const (
	ActionMoveUnit           ActionType = "moveUnit"
	ActionBuildStructure     ActionType = "buildStructure"
	ActionTrainUnit          ActionType = "trainUnit"
	ActionImproveResource    ActionType = "improveResource"
	ActionResearchTechnology ActionType = "researchTechnology"
	ActionFoundCity          ActionType = "foundCity"
	ActionAttackEnemy        ActionType = "attackEnemy"
	ActionEndTurn            ActionType = "endTurn"
)

// ActionDetails carries the union of per-action fields; each action type
// reads only the keys it requires.
type ActionDetails struct {
	UnitID        string    `json:"unitId,omitempty"`
	CityID        string    `json:"cityId,omitempty"`
	StructureType string    `json:"structureType,omitempty"`
	UnitType      string    `json:"unitType,omitempty"`
	Quantity      int       `json:"quantity,omitempty"`
	ResourceType  string    `json:"resourceType,omitempty"`
	Technology    string    `json:"technology,omitempty"`
	Destination   *Location `json:"destination,omitempty"`
	Location      *Location `json:"location,omitempty"`
}

type Action struct {
	Type    ActionType    `json:"type"`
	Details ActionDetails `json:"details"`
}

type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindOwnership  ErrorKind = "ownership"
	ErrorKindNotFound   ErrorKind = "not_found"
)

// ActionError reports one failed action from a batch. The batch keeps
// going past failures; callers receive the full itemized list.
type ActionError struct {
	Action  ActionType    `json:"action"`
	Details ActionDetails `json:"details"`
	Kind    ErrorKind     `json:"kind"`
	Message string        `json:"error"`
}
