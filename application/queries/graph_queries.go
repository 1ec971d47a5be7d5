// Package queries holds the read-only graph queries served over the query
// bus.
package queries

import (
	"graph-assistant/pkg/utils"
)

const (
	// DefaultLimit applies when a list query does not set one.
	DefaultLimit = 25
	// MaxLimit bounds every list query.
	MaxLimit = 100
)

// GetVertexQuery fetches one vertex with its properties.
type GetVertexQuery struct {
	ID string `json:"id" validate:"required,max=256"`
}

// Validate validates the query
func (q GetVertexQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListVerticesQuery lists vertices, optionally by label.
type ListVerticesQuery struct {
	Label string `json:"label" validate:"max=128"`
	Limit int    `json:"limit" validate:"min=0,max=100"`
}

// Validate validates the query
func (q ListVerticesQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// NeighborsQuery lists the vertices adjacent to a vertex.
type NeighborsQuery struct {
	ID        string `json:"id" validate:"required,max=256"`
	Direction string `json:"direction" validate:"omitempty,oneof=in out both"`
	EdgeLabel string `json:"edgeLabel" validate:"max=128"`
	Limit     int    `json:"limit" validate:"min=0,max=100"`
}

// Validate validates the query
func (q NeighborsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// CountVerticesQuery counts vertices, optionally by label.
type CountVerticesQuery struct {
	Label string `json:"label" validate:"max=128"`
}

// Validate validates the query
func (q CountVerticesQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// CountResult is returned by CountVerticesQuery.
type CountResult struct {
	Label string `json:"label,omitempty"`
	Count int64  `json:"count"`
}

func effectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
