package neptune

import (
	"fmt"

	gremlingo "github.com/apache/tinkerpop/gremlin-go/v3/driver"
)

// normalize converts driver results into plain values that encode cleanly
// as JSON: maps keyed by strings, slices, scalars, and small maps for graph
// elements.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case *gremlingo.Result:
		if val == nil {
			return nil
		}
		return normalize(val.GetInterface())
	case []*gremlingo.Result:
		out := make([]interface{}, 0, len(val))
		for _, r := range val {
			out = append(out, normalize(r))
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(val))
		for _, item := range val {
			out = append(out, normalize(item))
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprint(normalize(k))] = normalize(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case *gremlingo.Vertex:
		return vertexView(val)
	case *gremlingo.Edge:
		return map[string]interface{}{
			"id":    normalize(val.Id),
			"label": val.Label,
			"type":  "edge",
			"outV":  normalize(val.OutV.Id),
			"inV":   normalize(val.InV.Id),
		}
	case *gremlingo.VertexProperty:
		return map[string]interface{}{
			"id":    normalize(val.Id),
			"key":   val.Key,
			"value": normalize(val.Value),
		}
	case *gremlingo.Property:
		return map[string]interface{}{
			"key":   val.Key,
			"value": normalize(val.Value),
		}
	case *gremlingo.Path:
		return normalize(val.Objects)
	case interface{ ToSlice() []interface{} }:
		return normalize(val.ToSlice())
	default:
		return val
	}
}

func vertexView(v *gremlingo.Vertex) map[string]interface{} {
	return map[string]interface{}{
		"id":    normalize(v.Id),
		"label": v.Label,
		"type":  "vertex",
	}
}
