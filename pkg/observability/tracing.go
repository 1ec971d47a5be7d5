package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer wraps units of work in X-Ray subsegments.
type Tracer struct {
	serviceName string
}

// NewTracer creates a new tracer instance
func NewTracer(serviceName string) *Tracer {
	return &Tracer{serviceName: serviceName}
}

// StartSegment starts a new trace segment
func (t *Tracer) StartSegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	return xray.BeginSegment(ctx, fmt.Sprintf("%s.%s", t.serviceName, name))
}

// TraceFunction runs fn inside a subsegment named name. Without an
// enclosing segment fn runs untraced.
func (t *Tracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	subCtx, seg := xray.BeginSubsegment(ctx, name)
	if seg == nil {
		return fn(ctx)
	}

	err := fn(subCtx)
	seg.Close(err)
	return err
}

// AddAnnotation adds an indexed annotation to the current segment
func (t *Tracer) AddAnnotation(ctx context.Context, key string, value string) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}

// AddMetadata adds metadata to the current segment
func (t *Tracer) AddMetadata(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddMetadata(key, value)
	}
}
