// Package rest exposes the assistant and the graph resolvers over HTTP.
package rest

import (
	"net/http"

	"graph-assistant/application/commands/bus"
	querybus "graph-assistant/application/queries/bus"
	"graph-assistant/interfaces/http/rest/handlers"
	"graph-assistant/interfaces/http/rest/middleware"
	apperrors "graph-assistant/pkg/errors"
	"graph-assistant/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options toggles optional middleware.
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	Debug          bool
}

// Router creates and configures the HTTP router
type Router struct {
	assistant  handlers.Assistant
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	collector  *observability.Collector
	options    Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance. collector may be nil, in which
// case /metrics is not served.
func NewRouter(
	assistant handlers.Assistant,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	collector *observability.Collector,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		assistant:  assistant,
		commandBus: commandBus,
		queryBus:   queryBus,
		collector:  collector,
		options:    options,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(rt.logger, rt.options.Debug)

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.collector != nil {
		router.Use(middleware.Metrics(rt.collector))
	}

	if rt.options.EnableCORS {
		origins := rt.options.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.collector != nil {
		router.Method(http.MethodGet, "/metrics", rt.collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		assistantHandler := handlers.NewAssistantHandler(rt.assistant, errorHandler, rt.logger)
		r.Post("/assistant/ask", assistantHandler.Ask)

		graphHandler := handlers.NewGraphHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)
		r.Route("/vertices", func(r chi.Router) {
			r.Get("/", graphHandler.ListVertices)
			r.Post("/", graphHandler.AddVertex)
			r.Get("/count", graphHandler.CountVertices)
			r.Get("/{id}", graphHandler.GetVertex)
			r.Patch("/{id}", graphHandler.UpdateVertex)
			r.Delete("/{id}", graphHandler.DropVertex)
			r.Get("/{id}/neighbors", graphHandler.Neighbors)
		})
		r.Post("/edges", graphHandler.AddEdge)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports whether the process can serve requests. The graph
// is reached per request, so readiness only needs the wired dependencies.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.assistant == nil || rt.queryBus == nil || rt.commandBus == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
