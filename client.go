package holded

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gaborage/go-holded/api/accounting"
	"github.com/gaborage/go-holded/api/crm"
	"github.com/gaborage/go-holded/api/invoicing"
	"github.com/gaborage/go-holded/api/projects"
	"github.com/gaborage/go-holded/api/resource"
	"github.com/gaborage/go-holded/api/team"
	"github.com/gaborage/go-holded/config"
	"github.com/gaborage/go-holded/logger"
	"github.com/gaborage/go-holded/observability"
	"github.com/gaborage/go-holded/transport"
)

// Request, Response and Query are the transport types, re-exported for
// callers that issue raw calls.
type (
	Request  = transport.Request
	Response = transport.Response
	Query    = transport.Query
	Call     = transport.Call
)

const closeTimeout = 5 * time.Second

// Client talks to one Holded account.
type Client struct {
	Invoicing  *invoicing.API
	CRM        *crm.API
	Projects   *projects.API
	Team       *team.API
	Accounting *accounting.API

	exec         *transport.Executor
	log          logger.Logger
	ownedHTTP    *http.Client
	provider     observability.Provider
	ownsProvider bool

	// mu orders Go's closed check and in-flight registration against
	// Shutdown marking the client closed before it drains.
	mu        sync.RWMutex
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ transport.Requester = (*Client)(nil)

// New creates a client for apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	s := &settings{builder: transport.NewBuilder(transport.Credentials{APIKey: apiKey})}
	for _, opt := range opts {
		opt(s)
	}
	return newClient(s)
}

// NewFromConfig creates a client from loaded configuration. opts are applied
// after the configuration and override it. When cfg enables observability
// the client owns the resulting provider and shuts it down on Close.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", config.ErrInvalidConfig)
	}

	b := transport.NewBuilder(transport.Credentials{APIKey: cfg.API.Key}).
		WithBaseURL(cfg.API.URL).
		WithAPIKeyHeader(cfg.API.Header).
		WithUserAgent(cfg.API.UserAgent).
		WithTimeout(cfg.Client.Timeout).
		WithRetryPolicy(transport.RetryPolicy{
			MaxAttempts:   cfg.Retry.Attempts,
			BaseDelay:     cfg.Retry.Delay.Base,
			MaxDelay:      cfg.Retry.Delay.Max,
			Multiplier:    cfg.Retry.Multiplier,
			Jitter:        cfg.Retry.Jitter,
			MaxRetryAfter: cfg.Retry.After.Max,
		}).
		WithRateLimit(cfg.Rate.Limit, cfg.Rate.Burst).
		WithConcurrency(cfg.Concurrency.Limit).
		WithPayloadLogging(cfg.Log.Payloads, 0)

	s := &settings{
		builder: b,
		log:     logger.New(cfg.Log.Level, cfg.Log.Pretty),
	}

	var owned observability.Provider
	if cfg.Observability.Enabled {
		obsCfg := cfg.Observability
		provider, err := observability.NewProvider(&obsCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create observability provider: %w", err)
		}
		owned = provider
		s.provider = provider
		s.ownsProvider = true
		useProvider(b, provider)
	}

	for _, opt := range opts {
		opt(s)
	}

	client, err := newClient(s)
	if owned != nil && (err != nil || !s.ownsProvider) {
		// Either construction failed or an option replaced the provider.
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if shutdownErr := owned.Shutdown(ctx); shutdownErr != nil && err != nil {
			err = errors.Join(err, shutdownErr)
		}
	}
	return client, err
}

func newClient(s *settings) (*Client, error) {
	c := &Client{
		log:          s.log,
		provider:     s.provider,
		ownsProvider: s.ownsProvider,
	}
	if c.log == nil {
		c.log = logger.Nop()
	}

	doer := s.httpClient
	if doer == nil {
		c.ownedHTTP = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
		doer = c.ownedHTTP
	}

	exec, err := s.builder.WithHTTPClient(doer).WithLogger(c.log).Build()
	if err != nil {
		return nil, err
	}
	c.exec = exec

	c.Invoicing = invoicing.New(c)
	c.CRM = crm.New(c)
	c.Projects = projects.New(c)
	c.Team = team.New(c)
	c.Accounting = accounting.New(c)
	return c, nil
}

// Execute runs req with retries. It implements transport.Requester, so the
// client can back any resource service.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.exec.Execute(ctx, req)
}

// Do is an alias of Execute.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.Execute(ctx, req)
}

// Get fetches path with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, query Query) (*Response, error) {
	return c.Execute(ctx, transport.Get(path, query))
}

// Post sends body to path.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Execute(ctx, transport.Post(path, body))
}

// Put sends body to path.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Execute(ctx, transport.Put(path, body))
}

// Delete removes path.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Execute(ctx, transport.Delete(path))
}

// Download fetches a binary such as a document PDF.
func (c *Client) Download(ctx context.Context, path string) (*resource.File, error) {
	return resource.Download(ctx, c, path)
}

// Go runs req in the background. The returned Call yields what Execute
// would have returned.
func (c *Client) Go(ctx context.Context, req *Request) *Call {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed.Load() {
		return transport.Failed(ErrClientClosed)
	}
	return c.exec.Go(ctx, req)
}

// ExecuteAll runs reqs concurrently and returns the responses in order.
func (c *Client) ExecuteAll(ctx context.Context, reqs []*Request) ([]*Response, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.exec.ExecuteAll(ctx, reqs)
}

// BaseURL returns the API root the client sends to.
func (c *Client) BaseURL() string {
	return c.exec.BaseURL()
}

// RetryPolicy returns the effective retry policy.
func (c *Client) RetryPolicy() transport.RetryPolicy {
	return c.exec.Policy()
}

// Close stops accepting calls and releases idle connections and any owned
// telemetry provider. Calls already running keep going; use Shutdown to
// wait for them.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return c.release(ctx)
}

// Shutdown stops accepting calls, waits for calls started with Go to finish
// or for ctx to end, then releases resources like Close.
func (c *Client) Shutdown(ctx context.Context) error {
	c.markClosed()
	drainErr := c.exec.Drain(ctx)
	if drainErr != nil {
		c.log.Warn().Err(drainErr).Msg("Holded client shut down with calls still running")
	}
	return errors.Join(drainErr, c.release(ctx))
}

func (c *Client) markClosed() {
	c.mu.Lock()
	c.closed.Store(true)
	c.mu.Unlock()
}

func (c *Client) release(ctx context.Context) error {
	c.markClosed()
	c.closeOnce.Do(func() {
		if c.ownedHTTP != nil {
			c.ownedHTTP.CloseIdleConnections()
		}
		if c.ownsProvider && c.provider != nil {
			if err := c.provider.Shutdown(ctx); err != nil {
				c.closeErr = fmt.Errorf("failed to shut down observability provider: %w", err)
			}
		}
	})
	return c.closeErr
}
