// Command email-subscription is a CloudFormation custom resource that keeps
// an SNS topic's e-mail subscriptions in line with an SSM parameter.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"graph-assistant/application/subscriptions"
	"graph-assistant/infrastructure/config"
	"graph-assistant/infrastructure/di"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

type handler struct {
	manager *subscriptions.Manager
	logger  *zap.Logger
}

func (h *handler) Handle(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	h.logger.Info("Custom resource request",
		zap.String("request_type", string(event.RequestType)),
		zap.String("logical_id", event.LogicalResourceID),
	)

	req, err := decodeProperties(event.ResourceProperties)
	if err != nil {
		return event.PhysicalResourceID, nil, err
	}

	var result *subscriptions.Result
	switch event.RequestType {
	case cfn.RequestCreate:
		result, err = h.manager.Create(ctx, req)
	case cfn.RequestUpdate:
		var old subscriptions.Request
		old, err = decodeProperties(event.OldResourceProperties)
		if err == nil {
			result, err = h.manager.Update(ctx, req, old)
		}
	case cfn.RequestDelete:
		result, err = h.manager.Delete(ctx, req)
		if err != nil {
			// a failed delete would leave the stack stuck
			h.logger.Error("Failed to remove subscriptions", zap.Error(err))
			return event.PhysicalResourceID, nil, nil
		}
		return event.PhysicalResourceID, data(result), nil
	default:
		err = fmt.Errorf("unsupported request type %q", event.RequestType)
	}
	if err != nil {
		return event.PhysicalResourceID, nil, err
	}
	return result.PhysicalResourceID, data(result), nil
}

func decodeProperties(props map[string]interface{}) (subscriptions.Request, error) {
	var req subscriptions.Request
	if len(props) == 0 {
		return req, nil
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("decode resource properties: %w", err)
	}
	return req, nil
}

func data(result *subscriptions.Result) map[string]interface{} {
	return map[string]interface{}{
		"Subscribed":   len(result.Subscribed),
		"Unsubscribed": len(result.Unsubscribed),
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeSubscriptions(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	h := &handler{manager: container.Manager, logger: container.Logger}
	lambda.Start(cfn.LambdaWrap(h.Handle))
}
