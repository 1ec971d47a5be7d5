package neptune

import (
	"context"
	"fmt"

	"graph-assistant/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/neptunedata"
	"github.com/aws/aws-sdk-go-v2/service/neptunedata/types"
	"go.uber.org/zap"
)

// LoaderAPI is the part of the Neptune data API used for bulk loads.
type LoaderAPI interface {
	StartLoaderJob(ctx context.Context, params *neptunedata.StartLoaderJobInput, optFns ...func(*neptunedata.Options)) (*neptunedata.StartLoaderJobOutput, error)
	GetLoaderJobStatus(ctx context.Context, params *neptunedata.GetLoaderJobStatusInput, optFns ...func(*neptunedata.Options)) (*neptunedata.GetLoaderJobStatusOutput, error)
}

// Loader drives the Neptune bulk loader.
type Loader struct {
	client LoaderAPI
	logger *zap.Logger
}

// NewLoader creates a new loader.
func NewLoader(client LoaderAPI, logger *zap.Logger) *Loader {
	return &Loader{client: client, logger: logger}
}

// NewLoaderClient creates a data API client pointed at the cluster endpoint.
func NewLoaderClient(cfg aws.Config, config Config) *neptunedata.Client {
	return neptunedata.NewFromConfig(cfg, func(o *neptunedata.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s:%d", config.Endpoint, config.Port))
	})
}

// StartLoad submits a load job and returns its id.
func (l *Loader) StartLoad(ctx context.Context, job ports.LoadJob) (string, error) {
	input := &neptunedata.StartLoaderJobInput{
		Source:         aws.String(job.Source),
		Format:         types.Format(job.Format),
		IamRoleArn:     aws.String(job.IAMRoleARN),
		S3BucketRegion: types.S3BucketRegion(job.Region),
		FailOnError:    aws.Bool(job.FailOnError),
	}
	if job.Parallelism != "" {
		input.Parallelism = types.Parallelism(job.Parallelism)
	}

	out, err := l.client.StartLoaderJob(ctx, input)
	if err != nil {
		return "", fmt.Errorf("start loader job: %w", err)
	}

	loadID := out.Payload["loadId"]
	if loadID == "" {
		return "", fmt.Errorf("start loader job: response carried no load id")
	}

	l.logger.Info("Started bulk load",
		zap.String("load_id", loadID),
		zap.String("source", job.Source),
		zap.String("format", job.Format),
	)
	return loadID, nil
}

// LoadStatus reports the overall status of a load job.
func (l *Loader) LoadStatus(ctx context.Context, loadID string) (*ports.LoadStatus, error) {
	out, err := l.client.GetLoaderJobStatus(ctx, &neptunedata.GetLoaderJobStatusInput{
		LoadId: aws.String(loadID),
	})
	if err != nil {
		return nil, fmt.Errorf("get loader job status: %w", err)
	}

	status := &ports.LoadStatus{LoadID: loadID, Status: aws.ToString(out.Status)}
	if out.Payload != nil {
		var payload map[string]interface{}
		if err := out.Payload.UnmarshalSmithyDocument(&payload); err != nil {
			return nil, fmt.Errorf("decode loader payload: %w", err)
		}
		status.Payload = payload
		if overall, ok := payload["overallStatus"].(map[string]interface{}); ok {
			if s, ok := overall["status"].(string); ok {
				status.Status = s
			}
		}
	}
	return status, nil
}
