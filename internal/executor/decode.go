package executor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmespath/go-jmespath"

	"github.com/studiowebux/workbench/internal/types"
)

// ErrMissingResult is carried by a malformed outcome whose result field is absent or not a string
var ErrMissingResult = errors.New("result field missing or not a string")

// DecodeRecord parses a structured response body and selects its fields.
// The result field must be a string; the others are optional.
func DecodeRecord(body []byte, fields types.FieldMap) types.Outcome {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return types.MalformedOutcome{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if _, ok := data.(map[string]interface{}); !ok {
		return types.MalformedOutcome{Err: fmt.Errorf("expected a JSON object, got %s", jsonKind(data))}
	}

	if fields.Result == "" {
		return types.MalformedOutcome{Err: fmt.Errorf("no result field configured")}
	}
	raw, err := jmespath.Search(fields.Result, data)
	if err != nil {
		return types.MalformedOutcome{Err: fmt.Errorf("invalid expression %q: %w", fields.Result, err)}
	}
	result, ok := raw.(string)
	if !ok {
		return types.MalformedOutcome{Err: fmt.Errorf("%w: %s", ErrMissingResult, fields.Result)}
	}

	rec := types.RecordOutcome{Result: result}
	for _, f := range []struct {
		expr string
		dst  *string
	}{
		{fields.Time, &rec.Time},
		{fields.Global, &rec.Global},
		{fields.Machines, &rec.Machines},
		{fields.Graph, &rec.Graph},
	} {
		if f.expr == "" {
			continue
		}
		v, err := jmespath.Search(f.expr, data)
		if err != nil {
			return types.MalformedOutcome{Err: fmt.Errorf("invalid expression %q: %w", f.expr, err)}
		}
		*f.dst = stringify(v)
	}
	return rec
}

// stringify converts an optional field to display text. Null becomes empty.
func stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	case bool:
		return fmt.Sprintf("%t", x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "object"
	}
}
