package neptune

import (
	"context"
	"fmt"
	"time"

	"graph-assistant/domain/traversal"

	"go.uber.org/zap"
)

// Executor runs one read-only traversal fragment per call on a fresh
// connection.
type Executor struct {
	connector Connector
	timeout   time.Duration
	logger    *zap.Logger
}

// NewExecutor creates an executor. A zero timeout leaves the traversal
// bounded only by the caller's context.
func NewExecutor(connector Connector, timeout time.Duration, logger *zap.Logger) *Executor {
	return &Executor{connector: connector, timeout: timeout, logger: logger}
}

type runResult struct {
	value interface{}
	err   error
}

// Execute parses and validates the fragment, then runs it. Fragments that
// fail validation never open a connection.
func (e *Executor) Execute(ctx context.Context, fragment string) (interface{}, error) {
	t, err := traversal.Parse(fragment)
	if err != nil {
		return nil, fmt.Errorf("rejected traversal: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	session, err := e.connector.Connect(ctx)
	if err != nil {
		return nil, classifyError(fmt.Errorf("connect to graph: %w", err))
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			e.logger.Warn("Failed to close graph connection", zap.Error(cerr))
		}
	}()

	done := make(chan runResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- runResult{err: fmt.Errorf("traversal panicked: %v", r)}
			}
		}()
		v, err := session.Run(ctx, t)
		done <- runResult{value: v, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, classifyError(res.err)
		}
		e.logger.Debug("Traversal completed", zap.String("traversal", t.String()))
		return res.value, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("traversal %s did not complete: %w", t.String(), ctx.Err())
	}
}
