package di

import (
	"testing"

	"graph-assistant/infrastructure/bedrock"
	"graph-assistant/infrastructure/config"
	"graph-assistant/infrastructure/notifications"
	"graph-assistant/infrastructure/resilience"
	"graph-assistant/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProvideMetrics(t *testing.T) {
	collector := observability.NewCollector("di_test")
	logger := zap.NewNop()

	off := ProvideMetrics(&config.Config{}, collector, nil, logger)
	lambda := ProvideMetrics(&config.Config{EnableMetrics: true, IsLambda: true, MetricsNamespace: "ns"}, collector, nil, logger)
	server := ProvideMetrics(&config.Config{EnableMetrics: true}, collector, nil, logger)

	assert.IsType(t, observability.NopMetrics{}, off)
	assert.IsType(t, &observability.Metrics{}, lambda)
	assert.Same(t, collector, server)
}

func TestProvideTracer(t *testing.T) {
	assert.Nil(t, ProvideTracer(&config.Config{}))
	assert.NotNil(t, ProvideTracer(&config.Config{EnableTracing: true}))
}

func TestProvideLanguageModel_Breaker(t *testing.T) {
	plain := ProvideLanguageModel(nil, &config.Config{ModelID: "m", ModelMaxTokens: 1000}, zap.NewNop())
	guarded := ProvideLanguageModel(nil, &config.Config{ModelID: "m", ModelMaxTokens: 1000, ModelBreakerEnabled: true}, zap.NewNop())

	assert.IsType(t, &bedrock.Model{}, plain)
	assert.IsType(t, &resilience.BreakerModel{}, guarded)
}

func TestProvideEventPublisher_WithoutBus(t *testing.T) {
	publisher := ProvideEventPublisher(nil, &config.Config{}, zap.NewNop())

	assert.IsType(t, notifications.NopPublisher{}, publisher)
}

func TestProvideSystemPrompt(t *testing.T) {
	prompt, err := ProvideSystemPrompt(&config.Config{})

	require.NoError(t, err)
	assert.Contains(t, string(prompt), "airport")
}

func TestProvideNeptuneConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.NeptuneEndpoint = "db.cluster.local"

	n := ProvideNeptuneConfig(cfg)

	assert.Equal(t, "wss://db.cluster.local:8182/gremlin", n.URL())
	assert.Equal(t, "g", n.TraversalSource)
	assert.Nil(t, ProvideIAMAuth(cfg, aws.Config{}))
}
