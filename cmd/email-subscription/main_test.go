package main

import (
	"context"
	"errors"
	"testing"

	"graph-assistant/application/ports/mocks"
	"graph-assistant/application/subscriptions"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const topic = "arn:aws:sns:us-east-1:123456789012:graph-alerts"

var props = map[string]interface{}{
	"ServiceToken":  "arn:aws:lambda:us-east-1:123456789012:function:email-subscription",
	"TopicArn":      topic,
	"ParameterName": "/graph/alert-emails",
}

func newHandler(params *mocks.MockParameterReader, subscriber *mocks.MockTopicSubscriber) *handler {
	return &handler{
		manager: subscriptions.NewManager(params, subscriber, zap.NewNop()),
		logger:  zap.NewNop(),
	}
}

func TestHandle_Create(t *testing.T) {
	// Arrange
	params := new(mocks.MockParameterReader)
	subscriber := new(mocks.MockTopicSubscriber)
	params.On("GetParameter", mock.Anything, "/graph/alert-emails").Return("ops@example.com", nil)
	subscriber.On("Subscribe", mock.Anything, topic, "ops@example.com").Return("pending confirmation", nil)

	// Act
	id, data, err := newHandler(params, subscriber).Handle(context.Background(), cfn.Event{
		RequestType:        cfn.RequestCreate,
		ResourceProperties: props,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "email-subscriptions-graph-alerts", id)
	assert.Equal(t, 1, data["Subscribed"])
}

func TestHandle_CreateFailure(t *testing.T) {
	params := new(mocks.MockParameterReader)
	params.On("GetParameter", mock.Anything, mock.Anything).Return("", errors.New("ParameterNotFound"))

	_, _, err := newHandler(params, new(mocks.MockTopicSubscriber)).Handle(context.Background(), cfn.Event{
		RequestType:        cfn.RequestCreate,
		ResourceProperties: props,
	})

	assert.Error(t, err)
}

func TestHandle_DeleteNeverFails(t *testing.T) {
	params := new(mocks.MockParameterReader)
	params.On("GetParameter", mock.Anything, mock.Anything).Return("", errors.New("ParameterNotFound"))

	id, _, err := newHandler(params, new(mocks.MockTopicSubscriber)).Handle(context.Background(), cfn.Event{
		RequestType:        cfn.RequestDelete,
		PhysicalResourceID: "email-subscriptions-graph-alerts",
		ResourceProperties: props,
	})

	require.NoError(t, err)
	assert.Equal(t, "email-subscriptions-graph-alerts", id)
}

func TestDecodeProperties(t *testing.T) {
	req, err := decodeProperties(props)

	require.NoError(t, err)
	assert.Equal(t, subscriptions.Request{TopicARN: topic, ParameterName: "/graph/alert-emails"}, req)
}
