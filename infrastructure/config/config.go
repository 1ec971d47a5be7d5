// Package config loads the process configuration from environment variables,
// optionally layered over a YAML file named by CONFIG_FILE.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"graph-assistant/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress" validate:"required"`
	Environment   string `yaml:"environment" validate:"required,oneof=development staging production test"`
	IsLambda      bool   `yaml:"isLambda"`

	// AWS configuration
	AWSRegion string `yaml:"awsRegion" validate:"required"`

	// Graph database
	NeptuneEndpoint string        `yaml:"neptuneEndpoint"`
	NeptunePort     int           `yaml:"neptunePort" validate:"min=1,max=65535"`
	NeptuneIAMAuth  bool          `yaml:"neptuneIamAuth"`
	NeptuneTLS      bool          `yaml:"neptuneTls"`
	TraversalSource string        `yaml:"traversalSource" validate:"required"`
	QueryTimeout    time.Duration `yaml:"queryTimeout" validate:"min=0"`
	ConnectTimeout  time.Duration `yaml:"connectTimeout" validate:"min=0"`

	// Language model
	ModelID             string        `yaml:"modelId" validate:"required"`
	ModelMaxTokens      int           `yaml:"modelMaxTokens" validate:"min=1,max=8192"`
	ModelTemperature    float64       `yaml:"modelTemperature" validate:"min=0,max=1"`
	InvocationTimeout   time.Duration `yaml:"invocationTimeout" validate:"min=0"`
	ModelBreakerEnabled bool          `yaml:"modelBreakerEnabled"`
	GraphSchemaFile     string        `yaml:"graphSchemaFile"`

	// Events and bulk load
	EventBusName     string `yaml:"eventBusName"`
	LoaderIAMRoleARN string `yaml:"loaderIamRoleArn"`
	LoaderS3Region   string `yaml:"loaderS3Region"`

	// Logging
	LogLevel string `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`

	// Feature flags
	EnableMetrics    bool   `yaml:"enableMetrics"`
	EnableTracing    bool   `yaml:"enableTracing"`
	EnableCORS       bool   `yaml:"enableCors"`
	MetricsNamespace string `yaml:"metricsNamespace"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		ServerAddress:     ":8080",
		Environment:       "development",
		AWSRegion:         "us-east-1",
		NeptunePort:       8182,
		NeptuneTLS:        true,
		TraversalSource:   "g",
		QueryTimeout:      30 * time.Second,
		ConnectTimeout:    10 * time.Second,
		ModelID:           "anthropic.claude-3-sonnet-20240229-v1:0",
		ModelMaxTokens:    1000,
		InvocationTimeout: 0,
		LogLevel:          "info",
		EnableCORS:        true,
	}
}

// LoadConfig loads configuration. Precedence, lowest first: defaults, the
// YAML file named by CONFIG_FILE, environment variables.
func LoadConfig() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.MetricsNamespace == "" {
		cfg.MetricsNamespace = "GraphAssistant/" + cfg.Environment
	}
	if cfg.LoaderS3Region == "" {
		cfg.LoaderS3Region = cfg.AWSRegion
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)

	c.NeptuneEndpoint = getEnv("NEPTUNE_ENDPOINT", c.NeptuneEndpoint)
	c.NeptunePort = getEnvInt("NEPTUNE_PORT", c.NeptunePort)
	c.NeptuneIAMAuth = getEnvBool("NEPTUNE_IAM_AUTH", c.NeptuneIAMAuth)
	c.NeptuneTLS = getEnvBool("NEPTUNE_TLS", c.NeptuneTLS)
	c.TraversalSource = getEnv("TRAVERSAL_SOURCE", c.TraversalSource)

	c.ModelID = getEnv("MODEL_ID", c.ModelID)
	c.ModelMaxTokens = getEnvInt("MODEL_MAX_TOKENS", c.ModelMaxTokens)
	c.ModelBreakerEnabled = getEnvBool("MODEL_BREAKER_ENABLED", c.ModelBreakerEnabled)
	c.GraphSchemaFile = getEnv("GRAPH_SCHEMA_FILE", c.GraphSchemaFile)

	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.LoaderIAMRoleARN = getEnv("LOADER_IAM_ROLE_ARN", c.LoaderIAMRoleARN)
	c.LoaderS3Region = getEnv("LOADER_S3_REGION", c.LoaderS3Region)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)

	var err error
	if c.ModelTemperature, err = getEnvFloat("MODEL_TEMPERATURE", c.ModelTemperature); err != nil {
		return err
	}
	if c.QueryTimeout, err = getEnvDuration("QUERY_TIMEOUT", c.QueryTimeout); err != nil {
		return err
	}
	if c.ConnectTimeout, err = getEnvDuration("CONNECT_TIMEOUT", c.ConnectTimeout); err != nil {
		return err
	}
	if c.InvocationTimeout, err = getEnvDuration("INVOCATION_TIMEOUT", c.InvocationTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.IsProduction() && c.NeptuneEndpoint == "" {
		return fmt.Errorf("NEPTUNE_ENDPOINT is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat parses a float environment variable.
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// getEnvDuration accepts Go durations ("30s") or whole seconds ("30").
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
