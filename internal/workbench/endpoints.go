package workbench

import (
	"net/http"

	"github.com/studiowebux/workbench/internal/types"
)

// ShapeFor returns the response shape an action expects. It is fixed per action.
func ShapeFor(action types.Action) types.Shape {
	switch action {
	case types.ActionStructuralForm, types.ActionLoadExample:
		return types.ShapeText
	default:
		return types.ShapeRecord
	}
}

// LaneFor returns the display lane an action writes to
func LaneFor(action types.Action) types.Lane {
	switch action {
	case types.ActionGenerateCode:
		return types.LaneCodegen
	case types.ActionSynthesize:
		return types.LaneSynthesis
	default:
		return types.LanePrimary
	}
}

// DefaultEndpoints returns the endpoint table of the reference analysis server
func DefaultEndpoints() map[types.Action]types.Endpoint {
	return map[types.Action]types.Endpoint{
		types.ActionStructuralForm: {Path: "/ssa"},
		types.ActionStateMachine: {Path: "/cfsm", Fields: types.FieldMap{
			Result: "CFSM", Time: "time", Graph: "dot",
		}},
		types.ActionBehaviouralType: {Path: "/migo", Fields: types.FieldMap{
			Result: "MiGo", Time: "time",
		}},
		types.ActionGenerateCode: {Path: "/gong", Fields: types.FieldMap{
			Result: "Gong", Time: "time",
		}},
		types.ActionSynthesize: {Path: "/synthesis", Fields: types.FieldMap{
			Result: "SMC", Time: "time", Global: "Global", Machines: "Machines",
		}},
		types.ActionLoadExample: {Path: "/load"},
	}
}

// normalizeEndpoints fills missing entries from the defaults and pins shape and method
func normalizeEndpoints(in map[types.Action]types.Endpoint) map[types.Action]types.Endpoint {
	out := DefaultEndpoints()
	for action, ep := range in {
		def, known := out[action]
		if !known {
			continue
		}
		if ep.Path == "" {
			ep.Path = def.Path
		}
		ep.Fields = mergeFields(ep.Fields, def.Fields)
		out[action] = ep
	}
	for action, ep := range out {
		if ep.Method == "" {
			ep.Method = http.MethodPost
		}
		ep.Shape = ShapeFor(action)
		out[action] = ep
	}
	return out
}

func mergeFields(f, def types.FieldMap) types.FieldMap {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return types.FieldMap{
		Result:   pick(f.Result, def.Result),
		Time:     pick(f.Time, def.Time),
		Global:   pick(f.Global, def.Global),
		Machines: pick(f.Machines, def.Machines),
		Graph:    pick(f.Graph, def.Graph),
	}
}
