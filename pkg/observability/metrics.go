package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client used here.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes measurements to CloudWatch. Publication failures are
// logged and never returned to the caller.
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
	now       func() time.Time
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordLatency records the latency and status of one operation.
func (m *Metrics) RecordLatency(ctx context.Context, operation string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	dims := []types.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(operation)},
		{Name: aws.String("Status"), Value: aws.String(status)},
	}

	m.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("OperationLatency"),
			Dimensions: dims,
			Value:      aws.Float64(float64(latency.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(m.now()),
		},
		{
			MetricName: aws.String("OperationCount"),
			Dimensions: dims,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(m.now()),
		},
	})
}

// RecordOutcome counts how a question was answered.
func (m *Metrics) RecordOutcome(ctx context.Context, outcome string) {
	m.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("AssistantOutcome"),
			Dimensions: []types.Dimension{
				{Name: aws.String("Outcome"), Value: aws.String(outcome)},
			},
			Value:     aws.Float64(1),
			Unit:      types.StandardUnitCount,
			Timestamp: aws.Time(m.now()),
		},
	})
}

func (m *Metrics) put(ctx context.Context, data []types.MetricDatum) {
	if m.client == nil {
		return
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	})
	if err != nil {
		m.logger.Warn("Failed to send metrics",
			zap.String("namespace", m.namespace),
			zap.Error(err),
		)
	}
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

func (NopMetrics) RecordLatency(context.Context, string, time.Duration, error) {}

func (NopMetrics) RecordOutcome(context.Context, string) {}
