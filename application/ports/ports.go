// Package ports declares the interfaces the application layer depends on.
// Infrastructure adapters implement them; tests substitute stubs.
package ports

import (
	"context"
	"time"

	"graph-assistant/domain/assistant"
	"graph-assistant/domain/graph"
)

// LanguageModel produces one completion for a system instruction and an
// ordered message sequence. It fails when the service returns no text.
type LanguageModel interface {
	Complete(ctx context.Context, system string, messages []assistant.ConversationTurn) (string, error)
}

// UserFirstModel is implemented by models whose conversational API rejects
// message sequences that do not open with a user turn.
type UserFirstModel interface {
	RequiresLeadingUserTurn() bool
}

// TraversalExecutor runs one read-only traversal fragment and returns its
// normalized result.
type TraversalExecutor interface {
	Execute(ctx context.Context, fragment string) (interface{}, error)
}

// GraphReader serves the read resolvers.
type GraphReader interface {
	GetVertex(ctx context.Context, id string) (*graph.Vertex, error)
	ListVertices(ctx context.Context, label string, limit int) ([]graph.Vertex, error)
	Neighbors(ctx context.Context, id string, direction graph.Direction, edgeLabel string, limit int) ([]graph.Vertex, error)
	CountVertices(ctx context.Context, label string) (int64, error)
}

// GraphWriter serves the write resolvers.
type GraphWriter interface {
	AddVertex(ctx context.Context, v graph.Vertex) error
	AddEdge(ctx context.Context, e graph.Edge) error
	UpdateVertexProperties(ctx context.Context, id string, properties map[string]interface{}) error
	DropVertex(ctx context.Context, id string) error
}

// GraphStore combines reads and writes.
type GraphStore interface {
	GraphReader
	GraphWriter
}

// GraphEvent describes a completed graph mutation.
type GraphEvent struct {
	Type       string                 `json:"type"`
	ElementID  string                 `json:"elementId"`
	Label      string                 `json:"label,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// EventPublisher publishes graph events.
type EventPublisher interface {
	Publish(ctx context.Context, event GraphEvent) error
}

// LoadJob is a bulk load request as understood by the loader.
type LoadJob struct {
	Source      string
	Format      string
	IAMRoleARN  string
	Region      string
	Parallelism string
	FailOnError bool
}

// LoadStatus is the loader's view of a job.
type LoadStatus struct {
	LoadID  string                 `json:"loadId"`
	Status  string                 `json:"status"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// BulkLoader starts and inspects graph bulk loads.
type BulkLoader interface {
	StartLoad(ctx context.Context, job LoadJob) (string, error)
	LoadStatus(ctx context.Context, loadID string) (*LoadStatus, error)
}

// Subscription is one subscription on a notification topic.
type Subscription struct {
	ARN      string
	Protocol string
	Endpoint string
}

// TopicSubscriber manages e-mail subscriptions on a topic.
type TopicSubscriber interface {
	Subscribe(ctx context.Context, topicARN, email string) (string, error)
	Unsubscribe(ctx context.Context, subscriptionARN string) error
	ListSubscriptions(ctx context.Context, topicARN string) ([]Subscription, error)
}

// ParameterReader reads configuration parameters.
type ParameterReader interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// Metrics records assistant and resolver measurements.
type Metrics interface {
	RecordLatency(ctx context.Context, operation string, latency time.Duration, err error)
	RecordOutcome(ctx context.Context, outcome string)
}

// Tracer wraps a unit of work in a trace segment.
type Tracer interface {
	TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error
}
