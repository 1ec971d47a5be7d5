package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"graph-assistant/application/ports"
	apperrors "graph-assistant/pkg/errors"

	"go.uber.org/zap"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// Middleware wraps a query handler
type Middleware func(next QueryHandler) QueryHandler

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers    map[reflect.Type]QueryHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewQueryBus creates a new query bus
func NewQueryBus(middlewares ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:    make(map[reflect.Type]QueryHandler),
		middlewares: middlewares,
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	for i := len(b.middlewares) - 1; i >= 0; i-- {
		handler = b.middlewares[i](handler)
	}
	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, apperrors.NewInternalError(fmt.Sprintf("no handler registered for query type %T", query))
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query handler failed: %w", err)
	}
	return result, nil
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// LoggingMiddleware logs query execution
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			queryType := reflect.TypeOf(query).Name()
			start := time.Now()

			result, err := next.Handle(ctx, query)
			if err != nil {
				logger.Warn("Query failed",
					zap.String("type", queryType),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err),
				)
				return nil, err
			}

			logger.Debug("Query succeeded",
				zap.String("type", queryType),
				zap.Duration("duration", time.Since(start)),
			)
			return result, nil
		})
	}
}

// MetricsMiddleware records query latency
func MetricsMiddleware(metrics ports.Metrics) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			start := time.Now()
			result, err := next.Handle(ctx, query)
			metrics.RecordLatency(ctx, "query."+reflect.TypeOf(query).Name(), time.Since(start), err)
			return result, err
		})
	}
}
