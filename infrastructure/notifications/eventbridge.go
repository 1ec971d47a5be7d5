package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"graph-assistant/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// EventSource is the source of every event this service publishes.
const EventSource = "graph-assistant.graph"

// EventBridgeAPI is the part of the EventBridge client used by the publisher.
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventBridgePublisher publishes graph events to an event bus.
type EventBridgePublisher struct {
	client  EventBridgeAPI
	busName string
	logger  *zap.Logger
}

// NewEventBridgePublisher creates a new publisher.
func NewEventBridgePublisher(client EventBridgeAPI, busName string, logger *zap.Logger) *EventBridgePublisher {
	return &EventBridgePublisher{client: client, busName: busName, logger: logger}
}

// Publish sends one event. Partial failures are reported as errors.
func (p *EventBridgePublisher) Publish(ctx context.Context, event ports.GraphEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(p.busName),
			Source:       aws.String(EventSource),
			DetailType:   aws.String(event.Type),
			Detail:       aws.String(string(detail)),
			Resources:    []string{},
		}},
	})
	if err != nil {
		return fmt.Errorf("put events: %w", err)
	}

	if out.FailedEntryCount > 0 && len(out.Entries) > 0 {
		entry := out.Entries[0]
		return fmt.Errorf("event rejected: %s: %s", aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
	}

	p.logger.Debug("Published graph event",
		zap.String("type", event.Type),
		zap.String("element_id", event.ElementID),
	)
	return nil
}

// NopPublisher drops events. It is used when no event bus is configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, ports.GraphEvent) error { return nil }
