package main

import (
	"context"
	"encoding/json"
	"testing"

	"graph-assistant/application/bulkload"
	"graph-assistant/application/ports"
	"graph-assistant/application/ports/mocks"
	apperrors "graph-assistant/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHandler(loader *mocks.MockBulkLoader) *handler {
	service := bulkload.NewService(loader, bulkload.Config{IAMRoleARN: "arn:aws:iam::1:role/loader", Region: "us-east-1"}, zap.NewNop())
	return &handler{service: service, logger: zap.NewNop()}
}

func TestHandle_Start(t *testing.T) {
	// Arrange
	loader := new(mocks.MockBulkLoader)
	loader.On("StartLoad", mock.Anything, mock.MatchedBy(func(j ports.LoadJob) bool {
		return j.Source == "s3://bucket/data/" && j.Format == "csv"
	})).Return("load-9", nil)
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"source":"s3://bucket/data/","format":"csv"}`), &req))

	// Act
	result, err := newHandler(loader).Handle(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &bulkload.StartResult{LoadID: "load-9"}, result)
}

func TestHandle_Status(t *testing.T) {
	loader := new(mocks.MockBulkLoader)
	loader.On("LoadStatus", mock.Anything, "load-9").Return(&ports.LoadStatus{LoadID: "load-9", Status: "LOAD_COMPLETED"}, nil)

	result, err := newHandler(loader).Handle(context.Background(), Request{Action: "status", LoadID: "load-9"})

	require.NoError(t, err)
	assert.Equal(t, "LOAD_COMPLETED", result.(*ports.LoadStatus).Status)
}

func TestHandle_UnknownAction(t *testing.T) {
	_, err := newHandler(new(mocks.MockBulkLoader)).Handle(context.Background(), Request{Action: "cancel"})

	assert.True(t, apperrors.IsValidation(err))
}
