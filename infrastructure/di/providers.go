package di

import (
	"context"
	"fmt"

	"graph-assistant/application/assistant"
	"graph-assistant/application/bulkload"
	"graph-assistant/application/commands"
	"graph-assistant/application/commands/bus"
	"graph-assistant/application/ports"
	"graph-assistant/application/queries"
	querybus "graph-assistant/application/queries/bus"
	"graph-assistant/application/subscriptions"
	"graph-assistant/infrastructure/bedrock"
	"graph-assistant/infrastructure/config"
	"graph-assistant/infrastructure/neptune"
	"graph-assistant/infrastructure/notifications"
	"graph-assistant/infrastructure/parameters"
	"graph-assistant/infrastructure/resilience"
	"graph-assistant/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/neptunedata"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"
)

// SystemPrompt is the rendered system instruction given to the model.
type SystemPrompt string

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return observability.NewLogger(cfg.Environment, cfg.LogLevel)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideBedrockClient creates a Bedrock runtime client
func ProvideBedrockClient(awsCfg aws.Config) *bedrockruntime.Client {
	return bedrockruntime.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideSNSClient creates an SNS client
func ProvideSNSClient(awsCfg aws.Config) *awssns.Client {
	return awssns.NewFromConfig(awsCfg)
}

// ProvideSSMClient creates an SSM client
func ProvideSSMClient(awsCfg aws.Config) *awsssm.Client {
	return awsssm.NewFromConfig(awsCfg)
}

// ProvideNeptuneDataClient creates a Neptune data API client for the cluster
func ProvideNeptuneDataClient(awsCfg aws.Config, neptuneCfg neptune.Config) *neptunedata.Client {
	return neptune.NewLoaderClient(awsCfg, neptuneCfg)
}

// ProvideNeptuneConfig derives the connection settings
func ProvideNeptuneConfig(cfg *config.Config) neptune.Config {
	return neptune.Config{
		Endpoint:        cfg.NeptuneEndpoint,
		Port:            cfg.NeptunePort,
		UseTLS:          cfg.NeptuneTLS,
		TraversalSource: cfg.TraversalSource,
		ConnectTimeout:  cfg.ConnectTimeout,
		QueryTimeout:    cfg.QueryTimeout,
	}
}

// ProvideIAMAuth returns nil when IAM database authentication is off
func ProvideIAMAuth(cfg *config.Config, awsCfg aws.Config) *neptune.IAMAuthProvider {
	if !cfg.NeptuneIAMAuth {
		return nil
	}
	return neptune.NewIAMAuthProvider(awsCfg.Credentials, cfg.AWSRegion)
}

// ProvideConnector creates the gremlin connector
func ProvideConnector(neptuneCfg neptune.Config, auth *neptune.IAMAuthProvider, logger *zap.Logger) *neptune.DriverConnector {
	return neptune.NewDriverConnector(neptuneCfg, auth, logger)
}

// ProvideTraversalExecutor creates the executor used by the assistant
func ProvideTraversalExecutor(connector *neptune.DriverConnector, cfg *config.Config, logger *zap.Logger) ports.TraversalExecutor {
	return neptune.NewExecutor(connector, cfg.QueryTimeout, logger)
}

// ProvideGraphStore creates the store behind the read and write resolvers
func ProvideGraphStore(connector *neptune.DriverConnector, logger *zap.Logger) ports.GraphStore {
	return neptune.NewStore(connector, logger)
}

// ProvideLanguageModel creates the Bedrock model, behind a circuit breaker
// when MODEL_BREAKER_ENABLED is set
func ProvideLanguageModel(client *bedrockruntime.Client, cfg *config.Config, logger *zap.Logger) ports.LanguageModel {
	model := bedrock.NewModel(client, bedrock.Config{
		ModelID:     cfg.ModelID,
		MaxTokens:   int32(cfg.ModelMaxTokens),
		Temperature: float32(cfg.ModelTemperature),
	}, logger)

	if !cfg.ModelBreakerEnabled {
		return model
	}
	return resilience.NewBreakerModel(model, resilience.DefaultBreakerConfig("bedrock-"+cfg.ModelID), logger)
}

// ProvideSystemPrompt renders the system instructions for the graph schema
func ProvideSystemPrompt(cfg *config.Config) (SystemPrompt, error) {
	schema, err := assistant.LoadSchema(cfg.GraphSchemaFile)
	if err != nil {
		return "", err
	}
	prompt, err := assistant.BuildSystemPrompt(schema, assistant.DefaultMaxResults)
	if err != nil {
		return "", err
	}
	return SystemPrompt(prompt), nil
}

// ProvideCollector creates the Prometheus collector served on /metrics
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("graph_assistant")
}

// ProvideMetrics selects the metrics sink: nothing when metrics are off,
// CloudWatch inside Lambda, Prometheus for the long-running server
func ProvideMetrics(
	cfg *config.Config,
	collector *observability.Collector,
	client *awscloudwatch.Client,
	logger *zap.Logger,
) ports.Metrics {
	switch {
	case !cfg.EnableMetrics:
		return observability.NopMetrics{}
	case cfg.IsLambda:
		return observability.NewMetrics(cfg.MetricsNamespace, client, logger)
	default:
		return collector
	}
}

// ProvideTracer returns nil when tracing is off
func ProvideTracer(cfg *config.Config) ports.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("graph-assistant")
}

// ProvideAssistantService creates the question-answering service
func ProvideAssistantService(
	model ports.LanguageModel,
	executor ports.TraversalExecutor,
	prompt SystemPrompt,
	cfg *config.Config,
	metrics ports.Metrics,
	tracer ports.Tracer,
	logger *zap.Logger,
) *assistant.Service {
	return assistant.NewService(model, executor, string(prompt), assistant.Config{
		TraversalSource:   cfg.TraversalSource,
		InvocationTimeout: cfg.InvocationTimeout,
	}, metrics, tracer, logger)
}

// ProvideEventPublisher publishes mutation events, or drops them when no
// bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		logger.Info("EVENT_BUS_NAME not set, graph events are not published")
		return notifications.NopPublisher{}
	}
	return notifications.NewEventBridgePublisher(client, cfg.EventBusName, logger)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(store ports.GraphStore, metrics ports.Metrics, logger *zap.Logger) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.LoggingMiddleware(logger),
		querybus.MetricsMiddleware(metrics),
	)
	if err := queries.RegisterHandlers(queryBus, store); err != nil {
		return nil, fmt.Errorf("register query handlers: %w", err)
	}
	return queryBus, nil
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	store ports.GraphStore,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	)
	handler := commands.NewGraphCommandHandler(store, publisher, logger)
	if err := commands.RegisterHandlers(commandBus, handler); err != nil {
		return nil, fmt.Errorf("register command handlers: %w", err)
	}
	return commandBus, nil
}

// ProvideBulkLoader creates the Neptune bulk loader adapter
func ProvideBulkLoader(client *neptunedata.Client, logger *zap.Logger) ports.BulkLoader {
	return neptune.NewLoader(client, logger)
}

// ProvideBulkLoadService creates the bulk load use case
func ProvideBulkLoadService(loader ports.BulkLoader, cfg *config.Config, logger *zap.Logger) *bulkload.Service {
	return bulkload.NewService(loader, bulkload.Config{
		IAMRoleARN: cfg.LoaderIAMRoleARN,
		Region:     cfg.LoaderS3Region,
	}, logger)
}

// ProvideParameterReader creates the SSM parameter reader
func ProvideParameterReader(client *awsssm.Client) ports.ParameterReader {
	return parameters.NewSSMReader(client)
}

// ProvideTopicSubscriber creates the SNS subscriber
func ProvideTopicSubscriber(client *awssns.Client, logger *zap.Logger) ports.TopicSubscriber {
	return notifications.NewSNSSubscriber(client, logger)
}

// ProvideSubscriptionManager creates the e-mail subscription use case
func ProvideSubscriptionManager(
	params ports.ParameterReader,
	subscriber ports.TopicSubscriber,
	logger *zap.Logger,
) *subscriptions.Manager {
	return subscriptions.NewManager(params, subscriber, logger)
}
