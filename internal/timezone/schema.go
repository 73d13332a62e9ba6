package timezone

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

var (
	// ErrSnapshotDecode is returned when a candidate cannot be read as JSON.
	ErrSnapshotDecode = errors.New("snapshot is not decodable")
	// ErrSnapshotShape is returned when a candidate does not match SnapshotSchema.
	ErrSnapshotShape = errors.New("snapshot does not match cache schema")
)

// SnapshotSchema is the JSON schema a persisted CacheState must satisfy.
const SnapshotSchema = `{
  "title": "tzcache snapshot",
  "type": "object",
  "required": ["rawOffsets", "timezonesByContinent"],
  "additionalProperties": false,
  "properties": {
    "rawOffsets": {
      "type": "array",
      "items": {"type": "integer", "minimum": -840, "maximum": 840}
    },
    "timezonesByContinent": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["slug", "offset"],
          "additionalProperties": false,
          "properties": {
            "slug": {"type": "string", "minLength": 1},
            "offset": {"type": "integer", "minimum": -840, "maximum": 840}
          }
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func snapshotSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = jsonschema.NewCompiler().Compile([]byte(SnapshotSchema))
	})
	return compiledSchema, compileErr
}

// Validation is the outcome of checking a persisted candidate.
// When Accepted is false, State is the empty state and Reason explains why.
type Validation struct {
	State    CacheState
	Accepted bool
	Reason   error
}

func rejected(reason error) Validation {
	return Validation{State: Empty(), Reason: reason}
}

// Validate checks candidate against SnapshotSchema. The candidate may be raw
// JSON ([]byte, json.RawMessage, string), a CacheState, or any value that
// marshals to JSON such as a decoded map.
func Validate(candidate any) Validation {
	instance, err := toInstance(candidate)
	if err != nil {
		return rejected(fmt.Errorf("%w: %v", ErrSnapshotDecode, err))
	}

	schema, err := snapshotSchema()
	if err != nil {
		return rejected(fmt.Errorf("compile snapshot schema: %w", err))
	}

	result := schema.Validate(instance)
	if !result.Valid {
		return rejected(fmt.Errorf("%w: %v", ErrSnapshotShape, result.Errors))
	}

	// Re-encode the validated instance so the accepted state shares nothing with the candidate.
	bytes, err := json.Marshal(instance)
	if err != nil {
		return rejected(fmt.Errorf("%w: %v", ErrSnapshotDecode, err))
	}
	var state CacheState
	if err := json.Unmarshal(bytes, &state); err != nil {
		return rejected(fmt.Errorf("%w: %v", ErrSnapshotDecode, err))
	}
	if !state.IsComplete() {
		return rejected(ErrSnapshotShape)
	}
	return Validation{State: state, Accepted: true}
}

func toInstance(candidate any) (any, error) {
	var bytes []byte
	switch v := candidate.(type) {
	case nil:
		return nil, errors.New("candidate is nil")
	case []byte:
		bytes = v
	case json.RawMessage:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		bytes = encoded
	}

	var instance any
	if err := json.Unmarshal(bytes, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}
