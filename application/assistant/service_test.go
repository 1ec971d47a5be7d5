package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"graph-assistant/application/ports/mocks"
	domain "graph-assistant/domain/assistant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSystemPrompt = "You are a graph assistant."

func newTestService(model *mocks.MockLanguageModel, executor *mocks.MockTraversalExecutor) *Service {
	return NewService(model, executor, testSystemPrompt, Config{}, nil, nil, zap.NewNop())
}

func lastTurn(messages []domain.ConversationTurn) domain.ConversationTurn {
	return messages[len(messages)-1]
}

func TestService_AnswerQuestion_EmptyQuestionReturnsGuidance(t *testing.T) {
	for _, question := range []string{"", "   ", "\n\t"} {
		// Arrange
		model := new(mocks.MockLanguageModel)
		executor := new(mocks.MockTraversalExecutor)
		metrics := new(mocks.MockMetrics)
		metrics.On("RecordOutcome", mock.Anything, OutcomeGuidance).Once()
		svc := NewService(model, executor, testSystemPrompt, Config{}, metrics, nil, zap.NewNop())

		// Act
		resp := svc.AnswerQuestion(context.Background(), question, nil)

		// Assert
		assert.Equal(t, domain.GuidanceAnswer, resp.Answer)
		assert.Nil(t, resp.Query)
		assert.Nil(t, resp.Data)
		model.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		metrics.AssertExpectations(t)
	}
}

func TestService_AnswerQuestion_DirectJSONAnswer(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.Anything).
		Return(`{"needsQuery": false, "answer": "X"}`, nil).Once()
	svc := newTestService(model, executor)

	// Act
	resp := svc.AnswerQuestion(context.Background(), "What is a vertex?", nil)

	// Assert
	assert.Equal(t, "X", resp.Answer)
	assert.Nil(t, resp.Query)
	assert.Nil(t, resp.Data)
	model.AssertExpectations(t)
	executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestService_AnswerQuestion_PlainTextAnswer(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	text := "Airports are vertices labelled airport."
	model.On("Complete", mock.Anything, testSystemPrompt, mock.Anything).Return(text, nil).Once()
	svc := newTestService(model, executor)

	// Act
	resp := svc.AnswerQuestion(context.Background(), "What are airports?", nil)

	// Assert
	assert.Equal(t, text, resp.Answer)
	assert.Nil(t, resp.Query)
	assert.Nil(t, resp.Data)
}

func TestService_AnswerQuestion_ExecutesTraversalAndSummarizes(t *testing.T) {
	// Arrange
	ctx := context.Background()
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)

	directive := `{"needsQuery": true, "gremlinQuery": "V().count().next()", "explanation": "count vertices"}`
	model.On("Complete", mock.Anything, testSystemPrompt, mock.MatchedBy(func(m []domain.ConversationTurn) bool {
		return len(m) == 1
	})).Return(directive, nil).Once()
	model.On("Complete", mock.Anything, testSystemPrompt, mock.MatchedBy(func(m []domain.ConversationTurn) bool {
		return len(m) == 3
	})).Return("There are 42 vertices in the graph.", nil).Once()
	executor.On("Execute", mock.Anything, "V().count().next()").Return(int64(42), nil).Once()

	svc := newTestService(model, executor)

	// Act
	resp := svc.AnswerQuestion(ctx, "How many vertices are there?", nil)

	// Assert
	require.NotNil(t, resp.Query)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "g.V().count().next()", *resp.Query)
	assert.Equal(t, "42", *resp.Data)
	assert.Equal(t, "There are 42 vertices in the graph.", resp.Answer)
	model.AssertExpectations(t)
	executor.AssertExpectations(t)

	summaryCall := model.Calls[1].Arguments.Get(2).([]domain.ConversationTurn)
	assert.Equal(t, domain.RoleUser, summaryCall[0].Role)
	assert.Equal(t, domain.RoleAssistant, summaryCall[1].Role)
	assert.Contains(t, summaryCall[1].Content, "g.V().count().next()")
	assert.Equal(t, domain.RoleUser, lastTurn(summaryCall).Role)
	assert.Contains(t, lastTurn(summaryCall).Content, "42")
	assert.Contains(t, lastTurn(summaryCall).Content, "Do not return JSON")
}

func TestService_AnswerQuestion_UsesConfiguredTraversalSource(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"needsQuery": true, "gremlinQuery": "V().limit(1).toList()"}`, nil).Once()
	executor.On("Execute", mock.Anything, "V().limit(1).toList()").Return(nil, errors.New("boom")).Once()
	svc := NewService(model, executor, testSystemPrompt, Config{TraversalSource: "air"}, nil, nil, zap.NewNop())

	// Act
	resp := svc.AnswerQuestion(context.Background(), "Show me a vertex", nil)

	// Assert
	require.NotNil(t, resp.Query)
	assert.Equal(t, "air.V().limit(1).toList()", *resp.Query)
}

func TestService_AnswerQuestion_StripsSourcePrefix(t *testing.T) {
	tests := map[string]struct {
		source   string
		fragment string
		want     string
	}{
		"default source": {source: "", fragment: "g.V().count().next()", want: "g.V().count().next()"},
		"custom source":  {source: "air", fragment: "air.V().count().next()", want: "air.V().count().next()"},
		"model used g":   {source: "air", fragment: " g.V().count().next()", want: "air.V().count().next()"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// Arrange
			model := new(mocks.MockLanguageModel)
			executor := new(mocks.MockTraversalExecutor)
			model.On("Complete", mock.Anything, mock.Anything, mock.Anything).
				Return(`{"needsQuery": true, "gremlinQuery": "`+tt.fragment+`"}`, nil).Once()
			executor.On("Execute", mock.Anything, "V().count().next()").Return(nil, errors.New("boom")).Once()
			svc := NewService(model, executor, testSystemPrompt, Config{TraversalSource: tt.source}, nil, nil, zap.NewNop())

			// Act
			resp := svc.AnswerQuestion(context.Background(), "How many vertices are there?", nil)

			// Assert
			require.NotNil(t, resp.Query)
			assert.Equal(t, tt.want, *resp.Query)
			executor.AssertExpectations(t)
		})
	}
}

func TestService_AnswerQuestion_TraversalFailure(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.Anything).
		Return(`{"needsQuery": true, "gremlinQuery": "V().count().next()"}`, nil).Once()
	executor.On("Execute", mock.Anything, "V().count().next()").
		Return(nil, errors.New("dial tcp 10.0.0.1:8182: connection refused")).Once()
	svc := newTestService(model, executor)

	// Act
	resp := svc.AnswerQuestion(context.Background(), "How many vertices are there?", nil)

	// Assert
	require.NotNil(t, resp.Query)
	assert.Equal(t, "g.V().count().next()", *resp.Query)
	assert.Nil(t, resp.Data)
	assert.Contains(t, resp.Answer, "g.V().count().next()")
	assert.Contains(t, resp.Answer, "connection refused")
	model.AssertNumberOfCalls(t, "Complete", 1)
}

func TestService_AnswerQuestion_ModelFailureIsReportedAsAnswer(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.Anything).
		Return("", errors.New("model returned no text")).Once()
	metrics := new(mocks.MockMetrics)
	metrics.On("RecordLatency", mock.Anything, "model.directive", mock.Anything, mock.Anything).Once()
	metrics.On("RecordOutcome", mock.Anything, OutcomeFailed).Once()
	svc := NewService(model, executor, testSystemPrompt, Config{}, metrics, nil, zap.NewNop())

	// Act
	resp := svc.AnswerQuestion(context.Background(), "How many vertices are there?", nil)

	// Assert
	assert.Contains(t, resp.Answer, "model returned no text")
	assert.Nil(t, resp.Query)
	assert.Nil(t, resp.Data)
	metrics.AssertExpectations(t)
}

func TestService_AnswerQuestion_SummaryFailureIsReportedAsAnswer(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.MatchedBy(func(m []domain.ConversationTurn) bool {
		return len(m) == 1
	})).Return(`{"needsQuery": true, "gremlinQuery": "V().count().next()"}`, nil).Once()
	model.On("Complete", mock.Anything, testSystemPrompt, mock.MatchedBy(func(m []domain.ConversationTurn) bool {
		return len(m) == 3
	})).Return("", errors.New("throttled")).Once()
	executor.On("Execute", mock.Anything, "V().count().next()").Return(int64(42), nil).Once()
	svc := newTestService(model, executor)

	// Act
	resp := svc.AnswerQuestion(context.Background(), "How many vertices are there?", nil)

	// Assert
	assert.Contains(t, resp.Answer, "throttled")
	assert.Nil(t, resp.Query)
	assert.Nil(t, resp.Data)
}

func TestService_AnswerQuestion_RecoversFromPanics(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.Anything).
		Return(`{"needsQuery": true, "gremlinQuery": "V().count().next()"}`, nil).Once()
	executor.On("Execute", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("driver exploded") }).Return(nil, nil)
	svc := newTestService(model, executor)

	// Act
	resp := svc.AnswerQuestion(context.Background(), "How many vertices are there?", nil)

	// Assert
	assert.Contains(t, resp.Answer, "driver exploded")
	assert.Nil(t, resp.Query)
	assert.Nil(t, resp.Data)
}

func TestService_AnswerQuestion_IsIdempotent(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.MatchedBy(func(m []domain.ConversationTurn) bool {
		return lastTurn(m).Content == "How many airports?"
	})).Return(`{"needsQuery": true, "gremlinQuery": "V().hasLabel('airport').count().next()"}`, nil)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.MatchedBy(func(m []domain.ConversationTurn) bool {
		return lastTurn(m).Content != "How many airports?"
	})).Return("There are 3 airports.", nil)
	executor.On("Execute", mock.Anything, "V().hasLabel('airport').count().next()").Return(int64(3), nil)
	svc := newTestService(model, executor)
	history := []domain.ConversationTurn{
		domain.UserTurn("hello"),
		domain.AssistantTurn("Hi, ask me about the graph."),
	}

	// Act
	first := svc.AnswerQuestion(context.Background(), "How many airports?", history)
	second := svc.AnswerQuestion(context.Background(), "How many airports?", history)

	// Assert
	assert.Equal(t, first, second)
	assert.Len(t, history, 2)
	model.AssertNumberOfCalls(t, "Complete", 4)
	executor.AssertNumberOfCalls(t, "Execute", 2)
}

func TestService_AnswerQuestion_DropsLeadingAssistantTurns(t *testing.T) {
	// Arrange
	model := new(mocks.MockUserFirstModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.Anything).Return("plain answer", nil).Once()
	svc := NewService(model, executor, testSystemPrompt, Config{}, nil, nil, zap.NewNop())
	history := []domain.ConversationTurn{
		domain.AssistantTurn("hi"),
		domain.UserTurn("q1"),
	}

	// Act
	svc.AnswerQuestion(context.Background(), "q2", history)

	// Assert
	sent := model.Calls[0].Arguments.Get(2).([]domain.ConversationTurn)
	require.Len(t, sent, 2)
	assert.Equal(t, domain.UserTurn("q1"), sent[0])
	assert.Equal(t, domain.UserTurn("q2"), sent[1])
}

func TestService_AnswerQuestion_KeepsHistoryForPermissiveModels(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.Anything).Return("plain answer", nil).Once()
	svc := newTestService(model, executor)
	history := []domain.ConversationTurn{domain.AssistantTurn("hi"), domain.UserTurn("q1")}

	// Act
	svc.AnswerQuestion(context.Background(), "q2", history)

	// Assert
	sent := model.Calls[0].Arguments.Get(2).([]domain.ConversationTurn)
	assert.Len(t, sent, 3)
	assert.Equal(t, domain.RoleAssistant, sent[0].Role)
}

func TestService_AnswerQuestion_AppliesInvocationTimeout(t *testing.T) {
	// Arrange
	model := new(mocks.MockLanguageModel)
	executor := new(mocks.MockTraversalExecutor)
	model.On("Complete", mock.Anything, testSystemPrompt, mock.Anything).
		Return("", context.DeadlineExceeded).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, ok := ctx.Deadline()
			assert.True(t, ok)
		}).Once()
	svc := NewService(model, executor, testSystemPrompt, Config{InvocationTimeout: time.Second}, nil, nil, zap.NewNop())

	// Act
	resp := svc.AnswerQuestion(context.Background(), "How many vertices are there?", nil)

	// Assert
	assert.Contains(t, resp.Answer, context.DeadlineExceeded.Error())
	model.AssertExpectations(t)
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "scalar", input: int64(42), expected: "42"},
		{name: "nil", input: nil, expected: "null"},
		{name: "list", input: []interface{}{"AUS", "DFW"}, expected: "[\n  \"AUS\",\n  \"DFW\"\n]"},
		{name: "map keeps html", input: map[string]interface{}{"name": "A&B <x>"}, expected: "{\n  \"name\": \"A&B <x>\"\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FormatResult(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}
