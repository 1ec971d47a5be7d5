// Package subscriptions keeps the e-mail subscriptions of a notification
// topic in line with a list stored in a configuration parameter.
package subscriptions

import (
	"context"
	"fmt"
	"strings"

	"graph-assistant/application/ports"
	"graph-assistant/pkg/utils"

	"go.uber.org/zap"
)

// pendingConfirmation is the ARN SNS reports until a recipient confirms.
const pendingConfirmation = "PendingConfirmation"

const emailProtocol = "email"

// Request identifies the topic and the parameter holding the address list.
type Request struct {
	TopicARN      string `json:"TopicArn" validate:"required,startswith=arn:"`
	ParameterName string `json:"ParameterName" validate:"required"`
}

// Result summarizes one lifecycle call.
type Result struct {
	PhysicalResourceID string   `json:"physicalResourceId"`
	Subscribed         []string `json:"subscribed"`
	Unsubscribed       []string `json:"unsubscribed"`
}

// Manager applies subscription changes.
type Manager struct {
	parameters ports.ParameterReader
	subscriber ports.TopicSubscriber
	logger     *zap.Logger
}

// NewManager creates a new manager.
func NewManager(parameters ports.ParameterReader, subscriber ports.TopicSubscriber, logger *zap.Logger) *Manager {
	return &Manager{parameters: parameters, subscriber: subscriber, logger: logger}
}

// PhysicalResourceID names the resource after its topic.
func PhysicalResourceID(topicARN string) string {
	name := topicARN
	if i := strings.LastIndex(topicARN, ":"); i >= 0 {
		name = topicARN[i+1:]
	}
	return "email-subscriptions-" + name
}

// Create subscribes every address in the parameter.
func (m *Manager) Create(ctx context.Context, req Request) (*Result, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	emails, err := m.emails(ctx, req.ParameterName)
	if err != nil {
		return nil, err
	}

	result := &Result{PhysicalResourceID: PhysicalResourceID(req.TopicARN)}
	for _, email := range emails {
		if _, err := m.subscriber.Subscribe(ctx, req.TopicARN, email); err != nil {
			return nil, err
		}
		result.Subscribed = append(result.Subscribed, email)
	}
	m.logger.Info("Created e-mail subscriptions",
		zap.String("topic_arn", req.TopicARN),
		zap.Int("subscribed", len(result.Subscribed)),
	)
	return result, nil
}

// Update reconciles the topic with the parameter. When the topic itself
// changed, the old topic is cleaned up and the new one created from scratch.
func (m *Manager) Update(ctx context.Context, req, old Request) (*Result, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if old.TopicARN != "" && old.TopicARN != req.TopicARN {
		if _, err := m.Delete(ctx, old); err != nil {
			m.logger.Warn("Failed to clean up previous topic", zap.String("topic_arn", old.TopicARN), zap.Error(err))
		}
		return m.Create(ctx, req)
	}

	desired, err := m.emails(ctx, req.ParameterName)
	if err != nil {
		return nil, err
	}
	existing, err := m.emailSubscriptions(ctx, req.TopicARN)
	if err != nil {
		return nil, err
	}

	result := &Result{PhysicalResourceID: PhysicalResourceID(req.TopicARN)}
	wanted := make(map[string]bool, len(desired))
	for _, email := range desired {
		wanted[email] = true
		if _, ok := existing[email]; ok {
			continue
		}
		if _, err := m.subscriber.Subscribe(ctx, req.TopicARN, email); err != nil {
			return nil, err
		}
		result.Subscribed = append(result.Subscribed, email)
	}

	for email, sub := range existing {
		if wanted[email] || sub.ARN == pendingConfirmation {
			continue
		}
		if err := m.subscriber.Unsubscribe(ctx, sub.ARN); err != nil {
			return nil, err
		}
		result.Unsubscribed = append(result.Unsubscribed, email)
	}

	m.logger.Info("Updated e-mail subscriptions",
		zap.String("topic_arn", req.TopicARN),
		zap.Int("subscribed", len(result.Subscribed)),
		zap.Int("unsubscribed", len(result.Unsubscribed)),
	)
	return result, nil
}

// Delete removes the confirmed subscriptions of every listed address.
// Pending confirmations cannot be removed and are skipped.
func (m *Manager) Delete(ctx context.Context, req Request) (*Result, error) {
	result := &Result{PhysicalResourceID: PhysicalResourceID(req.TopicARN)}
	if req.TopicARN == "" || req.ParameterName == "" {
		return result, nil
	}

	emails, err := m.emails(ctx, req.ParameterName)
	if err != nil {
		return nil, err
	}
	existing, err := m.emailSubscriptions(ctx, req.TopicARN)
	if err != nil {
		return nil, err
	}

	for _, email := range emails {
		sub, ok := existing[email]
		if !ok || sub.ARN == pendingConfirmation {
			continue
		}
		if err := m.subscriber.Unsubscribe(ctx, sub.ARN); err != nil {
			return nil, err
		}
		result.Unsubscribed = append(result.Unsubscribed, email)
	}
	m.logger.Info("Deleted e-mail subscriptions",
		zap.String("topic_arn", req.TopicARN),
		zap.Int("unsubscribed", len(result.Unsubscribed)),
	)
	return result, nil
}

func (m *Manager) emails(ctx context.Context, parameterName string) ([]string, error) {
	raw, err := m.parameters.GetParameter(ctx, parameterName)
	if err != nil {
		return nil, fmt.Errorf("read e-mail list: %w", err)
	}
	emails, invalid := ParseEmails(raw)
	for _, bad := range invalid {
		m.logger.Warn("Skipping invalid e-mail address", zap.String("value", bad))
	}
	return emails, nil
}

func (m *Manager) emailSubscriptions(ctx context.Context, topicARN string) (map[string]ports.Subscription, error) {
	subs, err := m.subscriber.ListSubscriptions(ctx, topicARN)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]ports.Subscription)
	for _, sub := range subs {
		if sub.Protocol != emailProtocol {
			continue
		}
		byEmail[strings.ToLower(sub.Endpoint)] = sub
	}
	return byEmail, nil
}

type address struct {
	Email string `validate:"required,email"`
}

// ParseEmails splits a comma-separated list into lower-cased, de-duplicated
// addresses in their original order. Entries that are not addresses are
// returned separately.
func ParseEmails(raw string) (emails []string, invalid []string) {
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		email := strings.ToLower(strings.TrimSpace(part))
		if email == "" || seen[email] {
			continue
		}
		if err := utils.ValidateStruct(address{Email: email}); err != nil {
			invalid = append(invalid, email)
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails, invalid
}
