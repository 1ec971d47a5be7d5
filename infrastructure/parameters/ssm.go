// Package parameters reads configuration values from SSM Parameter Store.
package parameters

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMAPI is the part of the SSM client used by SSMReader.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMReader reads parameters, decrypting SecureStrings.
type SSMReader struct {
	client SSMAPI
}

// NewSSMReader creates a new reader.
func NewSSMReader(client SSMAPI) *SSMReader {
	return &SSMReader{client: client}
}

// GetParameter returns the parameter's value.
func (r *SSMReader) GetParameter(ctx context.Context, name string) (string, error) {
	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil {
		return "", fmt.Errorf("parameter %s has no value", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}
