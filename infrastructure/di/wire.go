//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"graph-assistant/infrastructure/config"

	"github.com/google/wire"
)

// AWSSet provides the shared AWS configuration and logger.
var AWSSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
)

// GraphSet provides the gremlin connection and everything built on it.
var GraphSet = wire.NewSet(
	ProvideNeptuneConfig,
	ProvideIAMAuth,
	ProvideConnector,
	ProvideTraversalExecutor,
	ProvideGraphStore,
)

// ObservabilitySet provides metrics and tracing.
var ObservabilitySet = wire.NewSet(
	ProvideCloudWatchClient,
	ProvideCollector,
	ProvideMetrics,
	ProvideTracer,
)

// SuperSet is the main provider set for the assistant and the resolvers.
var SuperSet = wire.NewSet(
	AWSSet,
	GraphSet,
	ObservabilitySet,
	ProvideBedrockClient,
	ProvideEventBridgeClient,
	ProvideLanguageModel,
	ProvideSystemPrompt,
	ProvideAssistantService,
	ProvideEventPublisher,
	ProvideQueryBus,
	ProvideCommandBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}

// InitializeBulkLoad wires the bulk load function.
func InitializeBulkLoad(ctx context.Context, cfg *config.Config) (*BulkLoadContainer, error) {
	wire.Build(
		AWSSet,
		ProvideNeptuneConfig,
		ProvideNeptuneDataClient,
		ProvideBulkLoader,
		ProvideBulkLoadService,
		wire.Struct(new(BulkLoadContainer), "*"),
	)
	return nil, nil
}

// InitializeSubscriptions wires the e-mail subscription custom resource.
func InitializeSubscriptions(ctx context.Context, cfg *config.Config) (*SubscriptionContainer, error) {
	wire.Build(
		AWSSet,
		ProvideSSMClient,
		ProvideSNSClient,
		ProvideParameterReader,
		ProvideTopicSubscriber,
		ProvideSubscriptionManager,
		wire.Struct(new(SubscriptionContainer), "*"),
	)
	return nil, nil
}
