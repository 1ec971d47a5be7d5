package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "g", cfg.TraversalSource)
	assert.Equal(t, 1000, cfg.ModelMaxTokens)
	assert.Equal(t, 8182, cfg.NeptunePort)
	assert.Equal(t, time.Duration(0), cfg.InvocationTimeout)
	assert.Equal(t, "GraphAssistant/development", cfg.MetricsNamespace)
	assert.Equal(t, cfg.AWSRegion, cfg.LoaderS3Region)
	assert.False(t, cfg.IsLambda)
}

func TestLoadConfig_Environment(t *testing.T) {
	// Arrange
	t.Setenv("TRAVERSAL_SOURCE", "air")
	t.Setenv("QUERY_TIMEOUT", "45")
	t.Setenv("INVOCATION_TIMEOUT", "2m")
	t.Setenv("MODEL_TEMPERATURE", "0.2")
	t.Setenv("MODEL_BREAKER_ENABLED", "true")
	t.Setenv("NEPTUNE_IAM_AUTH", "1")

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "air", cfg.TraversalSource)
	assert.Equal(t, 45*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 2*time.Minute, cfg.InvocationTimeout)
	assert.InDelta(t, 0.2, cfg.ModelTemperature, 1e-9)
	assert.True(t, cfg.ModelBreakerEnabled)
	assert.True(t, cfg.NeptuneIAMAuth)
}

func TestLoadConfig_FileThenEnvironment(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
neptuneEndpoint: db.cluster.local
modelId: file-model
queryTimeout: 5s
logLevel: debug
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MODEL_ID", "env-model")

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "db.cluster.local", cfg.NeptuneEndpoint)
	assert.Equal(t, "env-model", cfg.ModelID)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad duration":      {"QUERY_TIMEOUT": "soon"},
		"bad temperature":   {"MODEL_TEMPERATURE": "warm"},
		"temperature range": {"MODEL_TEMPERATURE": "3"},
		"unknown env":       {"ENVIRONMENT": "qa"},
		"prod without db":   {"ENVIRONMENT": "production", "NEPTUNE_ENDPOINT": ""},
		"missing file":      {"CONFIG_FILE": "/nonexistent/config.yaml"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
