// Command bulk-load starts Neptune bulk loads and reports their status.
package main

import (
	"context"
	"log"

	"graph-assistant/application/bulkload"
	"graph-assistant/infrastructure/config"
	"graph-assistant/infrastructure/di"
	apperrors "graph-assistant/pkg/errors"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

// Request selects the action. Start takes the load fields, status takes
// LoadID.
type Request struct {
	Action string `json:"action"`
	LoadID string `json:"loadId,omitempty"`
	bulkload.LoadRequest
}

type handler struct {
	service *bulkload.Service
	logger  *zap.Logger
}

func (h *handler) Handle(ctx context.Context, req Request) (interface{}, error) {
	switch req.Action {
	case "", "start":
		result, err := h.service.Start(ctx, req.LoadRequest)
		if err != nil {
			return nil, err
		}
		h.logger.Info("Bulk load started", zap.String("load_id", result.LoadID), zap.String("source", req.Source))
		return result, nil
	case "status":
		return h.service.Status(ctx, req.LoadID)
	default:
		return nil, apperrors.NewValidationError("action must be start or status")
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeBulkLoad(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	h := &handler{service: container.Service, logger: container.Logger}
	lambda.Start(h.Handle)
}
