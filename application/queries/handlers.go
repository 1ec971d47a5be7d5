package queries

import (
	"context"
	"fmt"

	"graph-assistant/application/ports"
	"graph-assistant/application/queries/bus"
	"graph-assistant/domain/graph"
)

// GetVertexHandler handles GetVertexQuery.
type GetVertexHandler struct {
	reader ports.GraphReader
}

// NewGetVertexHandler creates a new handler.
func NewGetVertexHandler(reader ports.GraphReader) *GetVertexHandler {
	return &GetVertexHandler{reader: reader}
}

// Handle returns a *graph.Vertex.
func (h *GetVertexHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(GetVertexQuery)
	if !ok {
		return nil, unexpected(q)
	}
	return h.reader.GetVertex(ctx, query.ID)
}

// ListVerticesHandler handles ListVerticesQuery.
type ListVerticesHandler struct {
	reader ports.GraphReader
}

// NewListVerticesHandler creates a new handler.
func NewListVerticesHandler(reader ports.GraphReader) *ListVerticesHandler {
	return &ListVerticesHandler{reader: reader}
}

// Handle returns a []graph.Vertex.
func (h *ListVerticesHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(ListVerticesQuery)
	if !ok {
		return nil, unexpected(q)
	}
	return h.reader.ListVertices(ctx, query.Label, effectiveLimit(query.Limit))
}

// NeighborsHandler handles NeighborsQuery.
type NeighborsHandler struct {
	reader ports.GraphReader
}

// NewNeighborsHandler creates a new handler.
func NewNeighborsHandler(reader ports.GraphReader) *NeighborsHandler {
	return &NeighborsHandler{reader: reader}
}

// Handle returns a []graph.Vertex. Direction defaults to out.
func (h *NeighborsHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(NeighborsQuery)
	if !ok {
		return nil, unexpected(q)
	}
	direction := graph.Direction(query.Direction)
	if direction == "" {
		direction = graph.DirectionOut
	}
	return h.reader.Neighbors(ctx, query.ID, direction, query.EdgeLabel, effectiveLimit(query.Limit))
}

// CountVerticesHandler handles CountVerticesQuery.
type CountVerticesHandler struct {
	reader ports.GraphReader
}

// NewCountVerticesHandler creates a new handler.
func NewCountVerticesHandler(reader ports.GraphReader) *CountVerticesHandler {
	return &CountVerticesHandler{reader: reader}
}

// Handle returns a CountResult.
func (h *CountVerticesHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(CountVerticesQuery)
	if !ok {
		return nil, unexpected(q)
	}
	count, err := h.reader.CountVertices(ctx, query.Label)
	if err != nil {
		return nil, err
	}
	return CountResult{Label: query.Label, Count: count}, nil
}

// RegisterHandlers wires every graph query into the bus.
func RegisterHandlers(b *bus.QueryBus, reader ports.GraphReader) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{GetVertexQuery{}, NewGetVertexHandler(reader)},
		{ListVerticesQuery{}, NewListVerticesHandler(reader)},
		{NeighborsQuery{}, NewNeighborsHandler(reader)},
		{CountVerticesQuery{}, NewCountVerticesHandler(reader)},
	}
	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func unexpected(q bus.Query) error {
	return fmt.Errorf("unexpected query type %T", q)
}
