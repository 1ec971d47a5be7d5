// Package notifications adapts SNS and EventBridge to the application ports.
package notifications

import (
	"context"
	"fmt"

	"graph-assistant/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// SNSAPI is the part of the SNS client used by SNSSubscriber.
type SNSAPI interface {
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
	Unsubscribe(ctx context.Context, params *sns.UnsubscribeInput, optFns ...func(*sns.Options)) (*sns.UnsubscribeOutput, error)
	ListSubscriptionsByTopic(ctx context.Context, params *sns.ListSubscriptionsByTopicInput, optFns ...func(*sns.Options)) (*sns.ListSubscriptionsByTopicOutput, error)
}

// SNSSubscriber manages e-mail subscriptions on SNS topics.
type SNSSubscriber struct {
	client SNSAPI
	logger *zap.Logger
}

// NewSNSSubscriber creates a new subscriber.
func NewSNSSubscriber(client SNSAPI, logger *zap.Logger) *SNSSubscriber {
	return &SNSSubscriber{client: client, logger: logger}
}

// Subscribe subscribes an e-mail address. The returned ARN is
// "pending confirmation" until the recipient confirms.
func (s *SNSSubscriber) Subscribe(ctx context.Context, topicARN, email string) (string, error) {
	out, err := s.client.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn: aws.String(topicARN),
		Protocol: aws.String("email"),
		Endpoint: aws.String(email),
	})
	if err != nil {
		return "", fmt.Errorf("subscribe %s: %w", email, err)
	}
	s.logger.Info("Subscribed e-mail address", zap.String("topic_arn", topicARN))
	return aws.ToString(out.SubscriptionArn), nil
}

// Unsubscribe removes a subscription.
func (s *SNSSubscriber) Unsubscribe(ctx context.Context, subscriptionARN string) error {
	if _, err := s.client.Unsubscribe(ctx, &sns.UnsubscribeInput{SubscriptionArn: aws.String(subscriptionARN)}); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", subscriptionARN, err)
	}
	return nil
}

// ListSubscriptions returns every subscription on the topic, following
// pagination.
func (s *SNSSubscriber) ListSubscriptions(ctx context.Context, topicARN string) ([]ports.Subscription, error) {
	var subs []ports.Subscription
	input := &sns.ListSubscriptionsByTopicInput{TopicArn: aws.String(topicARN)}
	for {
		out, err := s.client.ListSubscriptionsByTopic(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list subscriptions: %w", err)
		}
		for _, sub := range out.Subscriptions {
			subs = append(subs, ports.Subscription{
				ARN:      aws.ToString(sub.SubscriptionArn),
				Protocol: aws.ToString(sub.Protocol),
				Endpoint: aws.ToString(sub.Endpoint),
			})
		}
		if out.NextToken == nil {
			return subs, nil
		}
		input.NextToken = out.NextToken
	}
}
