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

// Command represents a command that changes state
type Command interface {
	Validate() error
}

// CommandHandler handles a specific command type. Handlers may return a
// result, such as the id of a created element.
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) (interface{}, error)
}

// Middleware defines command middleware
type Middleware func(next CommandHandler) CommandHandler

// CommandBus dispatches commands to their handlers
type CommandBus struct {
	handlers    map[reflect.Type]CommandHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewCommandBus creates a new command bus
func NewCommandBus(middlewares ...Middleware) *CommandBus {
	return &CommandBus{
		handlers:    make(map[reflect.Type]CommandHandler),
		middlewares: middlewares,
	}
}

// Register registers a handler for a command type
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(cmdType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}

	for i := len(b.middlewares) - 1; i >= 0; i-- {
		handler = b.middlewares[i](handler)
	}
	b.handlers[t] = handler
	return nil
}

// Send dispatches a command to its handler
func (b *CommandBus) Send(ctx context.Context, cmd Command) (interface{}, error) {
	if err := cmd.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()

	if !exists {
		return nil, apperrors.NewInternalError(fmt.Sprintf("no handler registered for command type %T", cmd))
	}

	result, err := handler.Handle(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("command handler failed: %w", err)
	}
	return result, nil
}

// CommandHandlerFunc is an adapter to allow functions to be used as handlers
type CommandHandlerFunc func(ctx context.Context, cmd Command) (interface{}, error)

// Handle implements CommandHandler
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) (interface{}, error) {
	return f(ctx, cmd)
}

// LoggingMiddleware logs command execution
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
			cmdType := reflect.TypeOf(cmd).Name()
			logger.Info("Executing command", zap.String("type", cmdType))

			result, err := next.Handle(ctx, cmd)
			if err != nil {
				logger.Error("Command failed", zap.String("type", cmdType), zap.Error(err))
			} else {
				logger.Info("Command succeeded", zap.String("type", cmdType))
			}
			return result, err
		})
	}
}

// MetricsMiddleware records command latency
func MetricsMiddleware(metrics ports.Metrics) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
			start := time.Now()
			result, err := next.Handle(ctx, cmd)
			metrics.RecordLatency(ctx, "command."+reflect.TypeOf(cmd).Name(), time.Since(start), err)
			return result, err
		})
	}
}
