// Package neptune runs traversals against Amazon Neptune over the Gremlin
// websocket protocol and drives the Neptune bulk loader.
package neptune

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"graph-assistant/domain/traversal"

	gremlingo "github.com/apache/tinkerpop/gremlin-go/v3/driver"
	"go.uber.org/zap"
)

// Config describes how to reach the cluster.
type Config struct {
	Endpoint        string
	Port            int
	UseTLS          bool
	TraversalSource string
	ConnectTimeout  time.Duration
	QueryTimeout    time.Duration
}

// URL returns the gremlin websocket endpoint.
func (c Config) URL() string {
	scheme := "ws"
	if c.UseTLS {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d/gremlin", scheme, c.Endpoint, c.Port)
}

// Session is one open connection. It must be closed exactly once.
type Session interface {
	Run(ctx context.Context, t *traversal.Traversal) (interface{}, error)
	// Close releases the connection. The gremlin-go session always returns
	// nil since the driver's Close reports nothing; the error exists for
	// other implementations.
	Close() error
}

// Connector opens sessions.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}

// DriverConnector opens gremlin-go remote connections.
type DriverConnector struct {
	config Config
	auth   *IAMAuthProvider
	logger *zap.Logger
}

// NewDriverConnector creates a connector. auth is nil when IAM database
// authentication is disabled.
func NewDriverConnector(config Config, auth *IAMAuthProvider, logger *zap.Logger) *DriverConnector {
	return &DriverConnector{config: config, auth: auth, logger: logger}
}

// Connect opens a new connection; connections are never shared.
func (c *DriverConnector) Connect(ctx context.Context) (Session, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	return &driverSession{conn: conn, g: gremlingo.Traversal_().WithRemote(conn)}, nil
}

func (c *DriverConnector) open(ctx context.Context) (*gremlingo.DriverRemoteConnection, error) {
	var headers http.Header
	if c.auth != nil {
		h, err := c.auth.Headers(ctx, c.config.Endpoint, c.config.Port)
		if err != nil {
			return nil, fmt.Errorf("iam auth: %w", err)
		}
		headers = h
	}

	c.logger.Debug("Opening graph connection", zap.String("url", c.config.URL()))
	return gremlingo.NewDriverRemoteConnection(c.config.URL(), func(s *gremlingo.DriverRemoteConnectionSettings) {
		s.TraversalSource = c.config.TraversalSource
		s.LogVerbosity = gremlingo.Warning
		if c.config.ConnectTimeout > 0 {
			s.ConnectionTimeout = c.config.ConnectTimeout
		}
		if c.config.UseTLS {
			s.TlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		if headers != nil {
			s.AuthInfo = gremlingo.HeaderAuthInfo(headers)
		}
	})
}

// Source opens a connection for callers that build traversals with the
// fluent API. The returned close func must be called exactly once.
func (c *DriverConnector) Source(ctx context.Context) (*gremlingo.GraphTraversalSource, func(), error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	return gremlingo.Traversal_().WithRemote(conn), conn.Close, nil
}

type driverSession struct {
	conn *gremlingo.DriverRemoteConnection
	g    *gremlingo.GraphTraversalSource
}

func (s *driverSession) Run(_ context.Context, t *traversal.Traversal) (interface{}, error) {
	gt, err := compile(s.g, t)
	if err != nil {
		return nil, err
	}

	switch t.Terminal {
	case traversal.TerminalNext:
		r, err := gt.Next()
		if err != nil {
			return nil, err
		}
		return normalize(r), nil
	case traversal.TerminalHasNext:
		return gt.HasNext()
	default:
		results, err := gt.ToList()
		if err != nil {
			return nil, err
		}
		return normalize(results), nil
	}
}

func (s *driverSession) Close() error {
	s.conn.Close()
	return nil
}
