package commands

import (
	"context"
	"fmt"
	"time"

	"graph-assistant/application/commands/bus"
	"graph-assistant/application/ports"
	"graph-assistant/domain/graph"
	apperrors "graph-assistant/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventGraphMutated is the detail type of every write event.
const EventGraphMutated = "GraphMutated"

// Operation names carried in event details.
const (
	OperationAddVertex    = "add_vertex"
	OperationAddEdge      = "add_edge"
	OperationUpdateVertex = "update_vertex"
	OperationDropVertex   = "drop_vertex"
)

// GraphCommandHandler applies writes to the graph and announces them. One
// instance serves all four commands.
type GraphCommandHandler struct {
	writer    ports.GraphWriter
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewGraphCommandHandler creates a new handler.
func NewGraphCommandHandler(writer ports.GraphWriter, publisher ports.EventPublisher, logger *zap.Logger) *GraphCommandHandler {
	return &GraphCommandHandler{
		writer:    writer,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Handle dispatches on the command type.
func (h *GraphCommandHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case AddVertexCommand:
		return h.addVertex(ctx, c)
	case AddEdgeCommand:
		return h.addEdge(ctx, c)
	case UpdateVertexPropertiesCommand:
		return h.updateVertex(ctx, c)
	case DropVertexCommand:
		return h.dropVertex(ctx, c)
	default:
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}
}

func (h *GraphCommandHandler) addVertex(ctx context.Context, c AddVertexCommand) (interface{}, error) {
	id := c.ID
	if id == "" {
		id = h.newID()
	}
	if err := h.writer.AddVertex(ctx, graph.Vertex{ID: id, Label: c.Label, Properties: c.Properties}); err != nil {
		return nil, err
	}
	h.publish(ctx, OperationAddVertex, id, c.Label, nil)
	return MutationResult{ID: id}, nil
}

func (h *GraphCommandHandler) addEdge(ctx context.Context, c AddEdgeCommand) (interface{}, error) {
	id := c.ID
	if id == "" {
		id = h.newID()
	}
	edge := graph.Edge{ID: id, Label: c.Label, FromID: c.FromID, ToID: c.ToID, Properties: c.Properties}
	if err := h.writer.AddEdge(ctx, edge); err != nil {
		return nil, apperrors.Wrapf(err, "edge %s -> %s", c.FromID, c.ToID)
	}
	h.publish(ctx, OperationAddEdge, id, c.Label, map[string]interface{}{"fromId": c.FromID, "toId": c.ToID})
	return MutationResult{ID: id}, nil
}

func (h *GraphCommandHandler) updateVertex(ctx context.Context, c UpdateVertexPropertiesCommand) (interface{}, error) {
	if err := h.writer.UpdateVertexProperties(ctx, c.ID, c.Properties); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(c.Properties))
	for k := range c.Properties {
		keys = append(keys, k)
	}
	h.publish(ctx, OperationUpdateVertex, c.ID, "", map[string]interface{}{"properties": keys})
	return MutationResult{ID: c.ID}, nil
}

func (h *GraphCommandHandler) dropVertex(ctx context.Context, c DropVertexCommand) (interface{}, error) {
	if err := h.writer.DropVertex(ctx, c.ID); err != nil {
		return nil, err
	}
	h.publish(ctx, OperationDropVertex, c.ID, "", nil)
	return MutationResult{ID: c.ID}, nil
}

// publish is best effort; the write has already happened.
func (h *GraphCommandHandler) publish(ctx context.Context, operation, id, label string, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["operation"] = operation

	event := ports.GraphEvent{
		Type:       EventGraphMutated,
		ElementID:  id,
		Label:      label,
		OccurredAt: h.now().UTC(),
		Details:    details,
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish graph event",
			zap.String("operation", operation),
			zap.String("element_id", id),
			zap.Error(err),
		)
	}
}

// RegisterHandlers wires every graph command into the bus.
func RegisterHandlers(b *bus.CommandBus, handler *GraphCommandHandler) error {
	for _, cmd := range []bus.Command{
		AddVertexCommand{},
		AddEdgeCommand{},
		UpdateVertexPropertiesCommand{},
		DropVertexCommand{},
	} {
		if err := b.Register(cmd, handler); err != nil {
			return err
		}
	}
	return nil
}
