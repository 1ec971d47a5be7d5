// Package commands holds the graph write commands served over the command
// bus.
package commands

import (
	"fmt"

	"graph-assistant/pkg/utils"
)

// reservedProperties cannot be set as ordinary properties.
var reservedProperties = map[string]bool{"id": true, "label": true}

// AddVertexCommand creates a vertex. An empty ID is replaced by a UUID.
type AddVertexCommand struct {
	ID         string                 `json:"id" validate:"max=256"`
	Label      string                 `json:"label" validate:"required,max=128"`
	Properties map[string]interface{} `json:"properties"`
}

// Validate validates the command
func (c AddVertexCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	return validateProperties(c.Properties)
}

// AddEdgeCommand creates an edge between two existing vertices.
type AddEdgeCommand struct {
	ID         string                 `json:"id" validate:"max=256"`
	FromID     string                 `json:"fromId" validate:"required,max=256"`
	ToID       string                 `json:"toId" validate:"required,max=256"`
	Label      string                 `json:"label" validate:"required,max=128"`
	Properties map[string]interface{} `json:"properties"`
}

// Validate validates the command
func (c AddEdgeCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	return validateProperties(c.Properties)
}

// UpdateVertexPropertiesCommand sets single-valued properties on a vertex.
type UpdateVertexPropertiesCommand struct {
	ID         string                 `json:"id" validate:"required,max=256"`
	Properties map[string]interface{} `json:"properties" validate:"required,min=1"`
}

// Validate validates the command
func (c UpdateVertexPropertiesCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	return validateProperties(c.Properties)
}

// DropVertexCommand removes a vertex and its edges.
type DropVertexCommand struct {
	ID string `json:"id" validate:"required,max=256"`
}

// Validate validates the command
func (c DropVertexCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// MutationResult is returned by every write command.
type MutationResult struct {
	ID string `json:"id"`
}

func validateProperties(properties map[string]interface{}) error {
	for key, value := range properties {
		if key == "" {
			return fmt.Errorf("property names must not be empty")
		}
		if reservedProperties[key] {
			return fmt.Errorf("property %q is reserved", key)
		}
		switch value.(type) {
		case string, bool, float64, float32, int, int32, int64:
		default:
			return fmt.Errorf("property %q must be a string, number or boolean", key)
		}
	}
	return nil
}
