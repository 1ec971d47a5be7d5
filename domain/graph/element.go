// Package graph holds the element views returned by the read and write
// resolvers.
package graph

import "fmt"

// Direction selects which edges a neighbor lookup follows.
type Direction string

const (
	DirectionOut  Direction = "out"
	DirectionIn   Direction = "in"
	DirectionBoth Direction = "both"
)

// Vertex is a vertex with its properties flattened to single values.
type Vertex struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Edge is an edge with its endpoints.
type Edge struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	FromID     string                 `json:"fromId"`
	ToID       string                 `json:"toId"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// reservedKeys are element-map entries that are not user properties.
var reservedKeys = map[string]bool{"id": true, "label": true, "IN": true, "OUT": true}

// VertexFromElementMap builds a Vertex from an element map whose keys have
// already been converted to strings. Single-element lists are unwrapped.
func VertexFromElementMap(m map[string]interface{}) Vertex {
	v := Vertex{Properties: make(map[string]interface{})}
	for key, value := range m {
		switch key {
		case "id":
			v.ID = toString(value)
		case "label":
			v.Label = toString(value)
		default:
			if reservedKeys[key] {
				continue
			}
			v.Properties[key] = unwrapSingle(value)
		}
	}
	return v
}

func unwrapSingle(value interface{}) interface{} {
	if list, ok := value.([]interface{}); ok && len(list) == 1 {
		return list[0]
	}
	return value
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
