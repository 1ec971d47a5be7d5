package neptune

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"graph-assistant/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/neptunedata"
	"github.com/aws/aws-sdk-go-v2/service/neptunedata/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLoaderAPI struct {
	startInput *neptunedata.StartLoaderJobInput
	startOut   *neptunedata.StartLoaderJobOutput
	statusOut  *neptunedata.GetLoaderJobStatusOutput
	err        error
}

func (f *fakeLoaderAPI) StartLoaderJob(_ context.Context, in *neptunedata.StartLoaderJobInput, _ ...func(*neptunedata.Options)) (*neptunedata.StartLoaderJobOutput, error) {
	f.startInput = in
	return f.startOut, f.err
}

func (f *fakeLoaderAPI) GetLoaderJobStatus(context.Context, *neptunedata.GetLoaderJobStatusInput, ...func(*neptunedata.Options)) (*neptunedata.GetLoaderJobStatusOutput, error) {
	return f.statusOut, f.err
}

func TestLoader_StartLoad(t *testing.T) {
	// Arrange
	api := &fakeLoaderAPI{startOut: &neptunedata.StartLoaderJobOutput{
		Status:  aws.String("200 OK"),
		Payload: map[string]string{"loadId": "load-123"},
	}}
	loader := NewLoader(api, zap.NewNop())
	job := ports.LoadJob{
		Source:      "s3://bucket/air-routes/",
		Format:      "csv",
		IAMRoleARN:  "arn:aws:iam::123456789012:role/loader",
		Region:      "us-east-1",
		Parallelism: "HIGH",
		FailOnError: true,
	}

	// Act
	id, err := loader.StartLoad(context.Background(), job)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "load-123", id)
	require.NotNil(t, api.startInput)
	assert.Equal(t, "s3://bucket/air-routes/", aws.ToString(api.startInput.Source))
	assert.Equal(t, types.Format("csv"), api.startInput.Format)
	assert.Equal(t, types.S3BucketRegion("us-east-1"), api.startInput.S3BucketRegion)
	assert.Equal(t, types.Parallelism("HIGH"), api.startInput.Parallelism)
	assert.True(t, aws.ToBool(api.startInput.FailOnError))
}

func TestLoader_StartLoad_MissingLoadID(t *testing.T) {
	api := &fakeLoaderAPI{startOut: &neptunedata.StartLoaderJobOutput{Payload: map[string]string{}}}
	loader := NewLoader(api, zap.NewNop())

	_, err := loader.StartLoad(context.Background(), ports.LoadJob{Source: "s3://b/", Format: "csv"})

	assert.Error(t, err)
}

func TestLoader_StartLoad_APIError(t *testing.T) {
	api := &fakeLoaderAPI{err: errors.New("AccessDenied")}
	loader := NewLoader(api, zap.NewNop())

	_, err := loader.StartLoad(context.Background(), ports.LoadJob{Source: "s3://b/", Format: "csv"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func newLoaderServer(t *testing.T, handler http.HandlerFunc) *Loader {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := neptunedata.New(neptunedata.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		Credentials:  aws.AnonymousCredentials{},
		HTTPClient:   srv.Client(),
		Retryer:      aws.NopRetryer{},
	})
	return NewLoader(client, zap.NewNop())
}

func TestLoader_StartLoad_DecodesResponse(t *testing.T) {
	// Arrange
	var body map[string]interface{}
	loader := newLoaderServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/loader", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"200 OK","payload":{"loadId":"abc-123"}}`))
	})

	// Act
	id, err := loader.StartLoad(context.Background(), ports.LoadJob{
		Source:      "s3://bucket/air-routes/",
		Format:      "csv",
		IAMRoleARN:  "arn:aws:iam::123456789012:role/loader",
		Region:      "us-east-1",
		FailOnError: true,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
	assert.Equal(t, "s3://bucket/air-routes/", body["source"])
	assert.Equal(t, "csv", body["format"])
}

func TestLoader_LoadStatus(t *testing.T) {
	// Arrange
	loader := newLoaderServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/loader/load-123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "200 OK",
			"payload": {
				"overallStatus": {
					"status": "LOAD_COMPLETED",
					"fullUri": "s3://bucket/air-routes/"
				}
			}
		}`))
	})

	// Act
	status, err := loader.LoadStatus(context.Background(), "load-123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "load-123", status.LoadID)
	assert.Equal(t, "LOAD_COMPLETED", status.Status)
	assert.Contains(t, status.Payload, "overallStatus")
}

func TestLoader_LoadStatus_WithoutPayload(t *testing.T) {
	api := &fakeLoaderAPI{statusOut: &neptunedata.GetLoaderJobStatusOutput{Status: aws.String("LOAD_IN_PROGRESS")}}
	loader := NewLoader(api, zap.NewNop())

	status, err := loader.LoadStatus(context.Background(), "load-123")

	require.NoError(t, err)
	assert.Equal(t, "LOAD_IN_PROGRESS", status.Status)
	assert.Nil(t, status.Payload)
}
