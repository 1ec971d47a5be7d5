// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"
	"time"

	"graph-assistant/application/ports"
	"graph-assistant/domain/assistant"
	"graph-assistant/domain/graph"

	"github.com/stretchr/testify/mock"
)

type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Complete(ctx context.Context, system string, messages []assistant.ConversationTurn) (string, error) {
	args := m.Called(ctx, system, messages)
	return args.String(0), args.Error(1)
}

// MockUserFirstModel is a language model that requires a leading user turn.
type MockUserFirstModel struct {
	MockLanguageModel
}

func (m *MockUserFirstModel) RequiresLeadingUserTurn() bool {
	return true
}

type MockTraversalExecutor struct {
	mock.Mock
}

func (m *MockTraversalExecutor) Execute(ctx context.Context, fragment string) (interface{}, error) {
	args := m.Called(ctx, fragment)
	return args.Get(0), args.Error(1)
}

type MockGraphStore struct {
	mock.Mock
}

func (m *MockGraphStore) GetVertex(ctx context.Context, id string) (*graph.Vertex, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*graph.Vertex), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGraphStore) ListVertices(ctx context.Context, label string, limit int) ([]graph.Vertex, error) {
	args := m.Called(ctx, label, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]graph.Vertex), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGraphStore) Neighbors(ctx context.Context, id string, direction graph.Direction, edgeLabel string, limit int) ([]graph.Vertex, error) {
	args := m.Called(ctx, id, direction, edgeLabel, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]graph.Vertex), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGraphStore) CountVertices(ctx context.Context, label string) (int64, error) {
	args := m.Called(ctx, label)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGraphStore) AddVertex(ctx context.Context, v graph.Vertex) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockGraphStore) AddEdge(ctx context.Context, e graph.Edge) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockGraphStore) UpdateVertexProperties(ctx context.Context, id string, properties map[string]interface{}) error {
	return m.Called(ctx, id, properties).Error(0)
}

func (m *MockGraphStore) DropVertex(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event ports.GraphEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockBulkLoader struct {
	mock.Mock
}

func (m *MockBulkLoader) StartLoad(ctx context.Context, job ports.LoadJob) (string, error) {
	args := m.Called(ctx, job)
	return args.String(0), args.Error(1)
}

func (m *MockBulkLoader) LoadStatus(ctx context.Context, loadID string) (*ports.LoadStatus, error) {
	args := m.Called(ctx, loadID)
	if args.Get(0) != nil {
		return args.Get(0).(*ports.LoadStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTopicSubscriber struct {
	mock.Mock
}

func (m *MockTopicSubscriber) Subscribe(ctx context.Context, topicARN, email string) (string, error) {
	args := m.Called(ctx, topicARN, email)
	return args.String(0), args.Error(1)
}

func (m *MockTopicSubscriber) Unsubscribe(ctx context.Context, subscriptionARN string) error {
	return m.Called(ctx, subscriptionARN).Error(0)
}

func (m *MockTopicSubscriber) ListSubscriptions(ctx context.Context, topicARN string) ([]ports.Subscription, error) {
	args := m.Called(ctx, topicARN)
	if args.Get(0) != nil {
		return args.Get(0).([]ports.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockParameterReader struct {
	mock.Mock
}

func (m *MockParameterReader) GetParameter(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordLatency(ctx context.Context, operation string, latency time.Duration, err error) {
	m.Called(ctx, operation, latency, err)
}

func (m *MockMetrics) RecordOutcome(ctx context.Context, outcome string) {
	m.Called(ctx, outcome)
}
