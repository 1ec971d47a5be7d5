package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"graph-assistant/application/commands"
	"graph-assistant/application/commands/bus"
	"graph-assistant/application/queries"
	querybus "graph-assistant/application/queries/bus"
	"graph-assistant/pkg/common"
	apperrors "graph-assistant/pkg/errors"
	"graph-assistant/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GraphHandler serves the vertex and edge endpoints.
type GraphHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *apperrors.ErrorHandler
	logger       *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *GraphHandler {
	return &GraphHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// GetVertex handles GET /vertices/{id}
func (h *GraphHandler) GetVertex(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetVertexQuery{ID: chi.URLParam(r, "id")})
}

// ListVertices handles GET /vertices
func (h *GraphHandler) ListVertices(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.ask(w, r, queries.ListVerticesQuery{Label: r.URL.Query().Get("label"), Limit: limit})
}

// Neighbors handles GET /vertices/{id}/neighbors
func (h *GraphHandler) Neighbors(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	q := r.URL.Query()
	h.ask(w, r, queries.NeighborsQuery{
		ID:        chi.URLParam(r, "id"),
		Direction: q.Get("direction"),
		EdgeLabel: q.Get("edgeLabel"),
		Limit:     limit,
	})
}

// CountVertices handles GET /vertices/count
func (h *GraphHandler) CountVertices(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.CountVerticesQuery{Label: r.URL.Query().Get("label")})
}

// AddVertex handles POST /vertices
func (h *GraphHandler) AddVertex(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddVertexCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	utils.NormalizeNumbers(cmd.Properties)
	h.send(w, r, http.StatusCreated, cmd)
}

// AddEdge handles POST /edges
func (h *GraphHandler) AddEdge(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddEdgeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	utils.NormalizeNumbers(cmd.Properties)
	h.send(w, r, http.StatusCreated, cmd)
}

// UpdateVertex handles PATCH /vertices/{id}. The body is the property map.
func (h *GraphHandler) UpdateVertex(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Properties map[string]interface{} `json:"properties"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	utils.NormalizeNumbers(body.Properties)
	h.send(w, r, http.StatusOK, commands.UpdateVertexPropertiesCommand{
		ID:         chi.URLParam(r, "id"),
		Properties: body.Properties,
	})
}

// DropVertex handles DELETE /vertices/{id}
func (h *GraphHandler) DropVertex(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, commands.DropVertexCommand{ID: chi.URLParam(r, "id")})
}

func (h *GraphHandler) ask(w http.ResponseWriter, r *http.Request, q querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

func (h *GraphHandler) send(w http.ResponseWriter, r *http.Request, status int, cmd bus.Command) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, status, result)
}

func (h *GraphHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(v); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return false
	}
	return true
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be an integer")
	}
	return n, nil
}
