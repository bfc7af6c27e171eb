package aiturn

import "github.com/santhosh-tekuri/jsonschema/v5"

// actionSchemaJSON constrains the shape of a single oracle-proposed
// action before it is decoded into a typed Action. Extra keys are
// tolerated; wrongly-typed known keys are not.
const actionSchemaJSON = `{
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"type": "string"},
    "details": {
      "type": "object",
      "properties": {
        "unitId": {"type": "string"},
        "cityId": {"type": "string"},
        "structureType": {"type": "string"},
        "unitType": {"type": "string"},
        "quantity": {"type": "integer", "minimum": 1},
        "resourceType": {"type": "string"},
        "technology": {"type": "string"},
        "destination": {"$ref": "#/$defs/location"},
        "location": {"$ref": "#/$defs/location"}
      }
    }
  },
  "$defs": {
    "location": {
      "type": "object",
      "required": ["x", "y"],
      "properties": {
        "x": {"type": "integer"},
        "y": {"type": "integer"}
      }
    }
  }
}`

var actionSchema = jsonschema.MustCompileString("action.schema.json", actionSchemaJSON)

func validActionShape(v any) bool {
	return actionSchema.Validate(v) == nil
}
