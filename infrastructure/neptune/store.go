package neptune

import (
	"context"
	"errors"
	"fmt"

	"graph-assistant/domain/graph"
	apperrors "graph-assistant/pkg/errors"

	gremlingo "github.com/apache/tinkerpop/gremlin-go/v3/driver"
	"go.uber.org/zap"
)

// SourceOpener opens a traversal source on a fresh connection.
type SourceOpener interface {
	Source(ctx context.Context) (*gremlingo.GraphTraversalSource, func(), error)
}

// Store implements the read and write resolvers with the fluent gremlin-go
// API. Like the executor, it opens one connection per operation.
type Store struct {
	opener SourceOpener
	logger *zap.Logger
}

// NewStore creates a new graph store.
func NewStore(opener SourceOpener, logger *zap.Logger) *Store {
	return &Store{opener: opener, logger: logger}
}

func (s *Store) withSource(ctx context.Context, operation string, fn func(g *gremlingo.GraphTraversalSource) error) error {
	g, closeConn, err := s.opener.Source(ctx)
	if err != nil {
		return wrapStoreError(operation, err)
	}
	defer closeConn()

	if err := fn(g); err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		s.logger.Error("Graph operation failed", zap.String("operation", operation), zap.Error(err))
		return wrapStoreError(operation, err)
	}
	return nil
}

func wrapStoreError(operation string, err error) error {
	err = classifyError(err)
	switch {
	case errors.Is(err, ErrConnectionClosed):
		return apperrors.NewNetworkError(fmt.Sprintf("graph operation '%s' lost its connection", operation), err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError(operation).WithCause(err)
	}
	return apperrors.NewDatabaseError(operation, err)
}

// GetVertex returns the vertex with its properties.
func (s *Store) GetVertex(ctx context.Context, id string) (*graph.Vertex, error) {
	var vertex *graph.Vertex
	err := s.withSource(ctx, "get_vertex", func(g *gremlingo.GraphTraversalSource) error {
		results, err := g.V(id).ElementMap().ToList()
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return apperrors.NewNotFoundError("vertex " + id)
		}
		v, err := toVertex(results[0])
		if err != nil {
			return err
		}
		vertex = &v
		return nil
	})
	return vertex, err
}

// ListVertices returns up to limit vertices, optionally filtered by label.
func (s *Store) ListVertices(ctx context.Context, label string, limit int) ([]graph.Vertex, error) {
	var vertices []graph.Vertex
	err := s.withSource(ctx, "list_vertices", func(g *gremlingo.GraphTraversalSource) error {
		t := g.V()
		if label != "" {
			t = t.HasLabel(label)
		}
		results, err := t.Limit(int64(limit)).ElementMap().ToList()
		if err != nil {
			return err
		}
		vertices, err = toVertices(results)
		return err
	})
	return vertices, err
}

// Neighbors returns vertices adjacent to id along the given direction.
func (s *Store) Neighbors(ctx context.Context, id string, direction graph.Direction, edgeLabel string, limit int) ([]graph.Vertex, error) {
	var vertices []graph.Vertex
	err := s.withSource(ctx, "neighbors", func(g *gremlingo.GraphTraversalSource) error {
		var labels []interface{}
		if edgeLabel != "" {
			labels = append(labels, edgeLabel)
		}

		t := g.V(id)
		switch direction {
		case graph.DirectionIn:
			t = t.In(labels...)
		case graph.DirectionBoth:
			t = t.Both(labels...)
		default:
			t = t.Out(labels...)
		}

		results, err := t.Dedup().Limit(int64(limit)).ElementMap().ToList()
		if err != nil {
			return err
		}
		vertices, err = toVertices(results)
		return err
	})
	return vertices, err
}

// CountVertices counts vertices, optionally filtered by label.
func (s *Store) CountVertices(ctx context.Context, label string) (int64, error) {
	var count int64
	err := s.withSource(ctx, "count_vertices", func(g *gremlingo.GraphTraversalSource) error {
		t := g.V()
		if label != "" {
			t = t.HasLabel(label)
		}
		r, err := t.Count().Next()
		if err != nil {
			return err
		}
		count, err = toInt64(r.GetInterface())
		return err
	})
	return count, err
}

// AddVertex creates a vertex with a caller-supplied id.
func (s *Store) AddVertex(ctx context.Context, v graph.Vertex) error {
	return s.withSource(ctx, "add_vertex", func(g *gremlingo.GraphTraversalSource) error {
		t := g.AddV(v.Label).Property(gremlingo.T.Id, v.ID)
		for key, value := range v.Properties {
			t = t.Property(key, value)
		}
		return <-t.Iterate()
	})
}

// AddEdge creates an edge between two existing vertices.
func (s *Store) AddEdge(ctx context.Context, e graph.Edge) error {
	return s.withSource(ctx, "add_edge", func(g *gremlingo.GraphTraversalSource) error {
		t := g.V(e.FromID).AddE(e.Label).To(gremlingo.T__.V(e.ToID)).Property(gremlingo.T.Id, e.ID)
		for key, value := range e.Properties {
			t = t.Property(key, value)
		}
		results, err := t.Id().ToList()
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return apperrors.NewNotFoundError("vertex " + e.FromID)
		}
		return nil
	})
}

// UpdateVertexProperties replaces the given properties with single values.
func (s *Store) UpdateVertexProperties(ctx context.Context, id string, properties map[string]interface{}) error {
	return s.withSource(ctx, "update_vertex", func(g *gremlingo.GraphTraversalSource) error {
		t := g.V(id)
		for key, value := range properties {
			t = t.Property(gremlingo.Cardinality.Single, key, value)
		}
		results, err := t.Id().ToList()
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return apperrors.NewNotFoundError("vertex " + id)
		}
		return nil
	})
}

// DropVertex removes a vertex and its edges.
func (s *Store) DropVertex(ctx context.Context, id string) error {
	return s.withSource(ctx, "drop_vertex", func(g *gremlingo.GraphTraversalSource) error {
		results, err := g.V(id).Id().ToList()
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return apperrors.NewNotFoundError("vertex " + id)
		}
		return <-g.V(id).Drop().Iterate()
	})
}

func toVertices(results []*gremlingo.Result) ([]graph.Vertex, error) {
	vertices := make([]graph.Vertex, 0, len(results))
	for _, r := range results {
		v, err := toVertex(r)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, v)
	}
	return vertices, nil
}

func toVertex(r *gremlingo.Result) (graph.Vertex, error) {
	m, ok := normalize(r).(map[string]interface{})
	if !ok {
		return graph.Vertex{}, fmt.Errorf("unexpected element map %T", r.GetInterface())
	}
	return graph.VertexFromElementMap(m), nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
}
