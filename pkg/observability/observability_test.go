package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	dev, err := NewLogger("development", "")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger("development", "loud")
	assert.Error(t, err)
}

func TestMetrics_RecordLatency(t *testing.T) {
	// Arrange
	client := &fakeCloudWatch{}
	metrics := NewMetrics("GraphAssistant/test", client, zap.NewNop())

	// Act
	metrics.RecordLatency(context.Background(), "model.directive", 1500*time.Millisecond, errors.New("throttled"))

	// Assert
	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	assert.Equal(t, "GraphAssistant/test", *input.Namespace)
	require.Len(t, input.MetricData, 2)
	assert.Equal(t, "OperationLatency", *input.MetricData[0].MetricName)
	assert.Equal(t, 1500.0, *input.MetricData[0].Value)
	assert.Equal(t, "failure", *input.MetricData[0].Dimensions[1].Value)
}

func TestMetrics_PutFailureIsSwallowed(t *testing.T) {
	client := &fakeCloudWatch{err: errors.New("access denied")}
	metrics := NewMetrics("ns", client, zap.NewNop())

	assert.NotPanics(t, func() {
		metrics.RecordOutcome(context.Background(), "query_answer")
	})
	assert.Len(t, client.inputs, 1)
}

func TestMetrics_NilClient(t *testing.T) {
	metrics := NewMetrics("ns", nil, zap.NewNop())

	assert.NotPanics(t, func() {
		metrics.RecordOutcome(context.Background(), "guidance")
	})
}

func TestCollector(t *testing.T) {
	// Arrange
	c := NewCollector("graph_assistant")

	// Act
	c.RecordOutcome(context.Background(), "direct_answer")
	c.RecordOutcome(context.Background(), "direct_answer")
	c.RecordLatency(context.Background(), "graph.traversal", time.Second, nil)
	c.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Outcomes.WithLabelValues("direct_answer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/health", "200")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graph_assistant_assistant_outcomes_total")
}

func TestCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector("a")
		NewCollector("a")
	})
}

func TestTracer_TraceFunction(t *testing.T) {
	// Arrange
	tracer := NewTracer("graph-assistant")
	ctx, seg := tracer.StartSegment(context.Background(), "test")
	defer seg.Close(nil)
	wantErr := errors.New("boom")

	// Act
	var inner *xray.Segment
	err := tracer.TraceFunction(ctx, "graph.traversal", func(ctx context.Context) error {
		inner = xray.GetSegment(ctx)
		return wantErr
	})

	// Assert
	assert.ErrorIs(t, err, wantErr)
	require.NotNil(t, inner)
	assert.Equal(t, "graph.traversal", inner.Name)
}
