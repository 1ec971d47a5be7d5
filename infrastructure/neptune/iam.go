package neptune

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

const (
	// neptuneService is the SigV4 signing name of the Neptune data plane.
	neptuneService = "neptune-db"
	// emptyPayloadHash is the SHA-256 of an empty body.
	emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// HTTPSigner is the subset of the SigV4 signer used for IAM auth.
type HTTPSigner interface {
	SignHTTP(ctx context.Context, credentials aws.Credentials, r *http.Request, payloadHash string, service string, region string, signingTime time.Time, optFns ...func(*v4.SignerOptions)) error
}

// IAMAuthProvider produces the signed headers Neptune expects on the
// websocket upgrade request when IAM database authentication is enabled.
type IAMAuthProvider struct {
	credentials aws.CredentialsProvider
	signer      HTTPSigner
	region      string
	now         func() time.Time
}

// NewIAMAuthProvider creates a provider that signs with the given credentials.
func NewIAMAuthProvider(credentials aws.CredentialsProvider, region string) *IAMAuthProvider {
	return &IAMAuthProvider{
		credentials: credentials,
		signer:      v4.NewSigner(),
		region:      region,
		now:         time.Now,
	}
}

// Headers signs a GET of the gremlin endpoint and returns the resulting
// headers. Signatures are short-lived, so a new set is made per connection.
func (p *IAMAuthProvider) Headers(ctx context.Context, host string, port int) (http.Header, error) {
	creds, err := p.credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve credentials: %w", err)
	}

	url := fmt.Sprintf("https://%s:%d/gremlin", host, port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	if err := p.signer.SignHTTP(ctx, creds, req, emptyPayloadHash, neptuneService, p.region, p.now()); err != nil {
		return nil, fmt.Errorf("sign gremlin request: %w", err)
	}

	headers := req.Header.Clone()
	headers.Set("Host", req.URL.Host)
	return headers, nil
}
