// Package resilience wraps outbound adapters with a circuit breaker.
package resilience

import (
	"context"
	"errors"
	"time"

	"graph-assistant/application/ports"
	"graph-assistant/domain/assistant"
	apperrors "graph-assistant/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// FailureThreshold is the failure ratio that trips the breaker once
	// MinRequests have been seen.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the model breaker
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      2,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerModel fails fast while the wrapped model keeps failing. It is
// shared across invocations of a warm process, which is the only state the
// assistant carries between questions.
type BreakerModel struct {
	next ports.LanguageModel
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerModel wraps next with a circuit breaker.
func NewBreakerModel(next ports.LanguageModel, config BreakerConfig, logger *zap.Logger) *BreakerModel {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// caller cancellations say nothing about the model's health
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerModel{next: next, cb: cb}
}

// Complete calls the wrapped model unless the breaker is open.
func (b *BreakerModel) Complete(ctx context.Context, system string, messages []assistant.ConversationTurn) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, system, messages)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", apperrors.NewUnavailableError("language model").WithCause(err)
		}
		return "", err
	}
	return out.(string), nil
}

// RequiresLeadingUserTurn forwards the wrapped model's constraint.
func (b *BreakerModel) RequiresLeadingUserTurn() bool {
	m, ok := b.next.(ports.UserFirstModel)
	return ok && m.RequiresLeadingUserTurn()
}

// State reports the breaker state, mainly for health checks.
func (b *BreakerModel) State() gobreaker.State {
	return b.cb.State()
}
