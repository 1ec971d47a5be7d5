// Package bulkload starts and tracks Neptune bulk loads from S3.
package bulkload

import (
	"context"
	"strings"

	"graph-assistant/application/ports"
	apperrors "graph-assistant/pkg/errors"
	"graph-assistant/pkg/utils"

	"go.uber.org/zap"
)

// LoadRequest asks for the files under Source to be loaded.
type LoadRequest struct {
	Source      string `json:"source" validate:"required,startswith=s3://"`
	Format      string `json:"format" validate:"required,oneof=csv opencypher ntriples nquads rdfxml turtle"`
	Parallelism string `json:"parallelism" validate:"omitempty,oneof=LOW MEDIUM HIGH OVERSUBSCRIBE"`
	FailOnError *bool  `json:"failOnError"`
}

// Config holds the settings every load shares.
type Config struct {
	IAMRoleARN string
	Region     string
}

// StartResult is returned by Start.
type StartResult struct {
	LoadID string `json:"loadId"`
}

// Service is the bulk load use case.
type Service struct {
	loader ports.BulkLoader
	config Config
	logger *zap.Logger
}

// NewService creates a new bulk load service.
func NewService(loader ports.BulkLoader, config Config, logger *zap.Logger) *Service {
	return &Service{loader: loader, config: config, logger: logger}
}

// Start validates the request and submits the load.
func (s *Service) Start(ctx context.Context, req LoadRequest) (*StartResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if s.config.IAMRoleARN == "" {
		return nil, apperrors.NewInternalError("bulk loader IAM role is not configured")
	}

	failOnError := true
	if req.FailOnError != nil {
		failOnError = *req.FailOnError
	}

	id, err := s.loader.StartLoad(ctx, ports.LoadJob{
		Source:      req.Source,
		Format:      req.Format,
		IAMRoleARN:  s.config.IAMRoleARN,
		Region:      s.config.Region,
		Parallelism: req.Parallelism,
		FailOnError: failOnError,
	})
	if err != nil {
		s.logger.Error("Failed to start bulk load", zap.String("source", req.Source), zap.Error(err))
		return nil, apperrors.NewExternalError("neptune loader", err)
	}
	return &StartResult{LoadID: id}, nil
}

// Status reports the state of a load.
func (s *Service) Status(ctx context.Context, loadID string) (*ports.LoadStatus, error) {
	if strings.TrimSpace(loadID) == "" {
		return nil, apperrors.NewValidationError("loadId is required")
	}
	status, err := s.loader.LoadStatus(ctx, loadID)
	if err != nil {
		return nil, apperrors.NewExternalError("neptune loader", err)
	}
	return status, nil
}
