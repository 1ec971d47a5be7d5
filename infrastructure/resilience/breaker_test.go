package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"graph-assistant/application/ports/mocks"
	apperrors "graph-assistant/pkg/errors"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "model",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
}

func TestBreakerModel_PassesThrough(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	model.On("Complete", mock.Anything, "sys", mock.Anything).Return("answer", nil)
	breaker := NewBreakerModel(model, testConfig(), zap.NewNop())

	// Act
	text, err := breaker.Complete(context.Background(), "sys", nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}

func TestBreakerModel_OpensAfterFailures(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	model.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("throttled"))
	breaker := NewBreakerModel(model, testConfig(), zap.NewNop())

	// Act
	_, err1 := breaker.Complete(context.Background(), "sys", nil)
	_, err2 := breaker.Complete(context.Background(), "sys", nil)
	_, err3 := breaker.Complete(context.Background(), "sys", nil)

	// Assert
	assert.EqualError(t, err1, "throttled")
	assert.EqualError(t, err2, "throttled")
	require.Error(t, err3)
	assert.True(t, apperrors.IsType(err3, apperrors.ErrorTypeUnavailable))
	assert.Equal(t, gobreaker.StateOpen, breaker.State())
	model.AssertNumberOfCalls(t, "Complete", 2)
}

func TestBreakerModel_IgnoresCancellation(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	model.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", context.Canceled)
	breaker := NewBreakerModel(model, testConfig(), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := breaker.Complete(context.Background(), "sys", nil)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}

func TestBreakerModel_ForwardsLeadingTurnRequirement(t *testing.T) {
	assert.True(t, NewBreakerModel(new(mocks.MockUserFirstModel), testConfig(), zap.NewNop()).RequiresLeadingUserTurn())
	assert.False(t, NewBreakerModel(new(mocks.MockLanguageModel), testConfig(), zap.NewNop()).RequiresLeadingUserTurn())
}
