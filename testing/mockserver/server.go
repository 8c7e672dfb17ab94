package mockserver

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/gaborage/go-holded/logger"
)

const (
	// DefaultAPIKey is the key the server accepts unless WithAPIKey is used.
	DefaultAPIKey = "mock-api-key"

	basePath = "/api/"
)

// Request is a request the server received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
	At     time.Time
}

type script struct {
	replies []Reply
	calls   int
}

func (s *script) next() Reply {
	i := s.calls
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	s.calls++
	return s.replies[i]
}

// Server is a scripted Holded API.
type Server struct {
	e   *echo.Echo
	srv *httptest.Server
	log logger.Logger

	apiKey    string
	keyHeader string
	rateLimit float64
	tracer    trace.TracerProvider

	mu       sync.Mutex
	scripts  map[string]*script
	requests []Request
}

// Option customizes a Server.
type Option func(*Server)

// WithAPIKey changes the accepted key.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithKeyHeader changes the header carrying the key.
func WithKeyHeader(name string) Option {
	return func(s *Server) { s.keyHeader = name }
}

// WithRateLimit answers 429 once clients exceed rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(s *Server) { s.rateLimit = rps }
}

// WithTracerProvider instruments the server so client spans can be linked
// to server spans in tests.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp }
}

// WithLogger logs every served request.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New starts a server and registers its shutdown with tb.Cleanup.
func New(tb testing.TB, opts ...Option) *Server {
	tb.Helper()

	s := &Server{
		apiKey:    DefaultAPIKey,
		keyHeader: "key",
		log:       logger.Nop(),
		scripts:   make(map[string]*script),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.e = echo.New()
	s.e.HideBanner = true
	s.e.HidePort = true
	s.setupMiddlewares()
	s.e.Any(basePath+"*", s.dispatch)

	s.srv = httptest.NewServer(s.e)
	tb.Cleanup(s.Close)
	return s
}

func (s *Server) setupMiddlewares() {
	s.e.Use(middleware.Recover())
	if s.tracer != nil {
		s.e.Use(otelecho.Middleware("holded-mock", otelecho.WithTracerProvider(s.tracer)))
	}
	s.e.Use(s.record)
	s.e.Use(s.requestLog)
	s.e.Use(s.authenticate)
	if s.rateLimit > 0 {
		s.e.Use(s.limit())
	}
}

// URL is the API base URL, ending in a slash.
func (s *Server) URL() string {
	return s.srv.URL + basePath
}

// APIKey is the key the server accepts.
func (s *Server) APIKey() string {
	return s.apiKey
}

// Client returns an http.Client wired to the server.
func (s *Server) Client() *http.Client {
	return s.srv.Client()
}

// Close stops the server. It is safe to call more than once.
func (s *Server) Close() {
	s.srv.Close()
}

// On scripts the replies for method and path, relative to the base URL.
// Calling On again for the same route replaces its script.
func (s *Server) On(method, path string, replies ...Reply) {
	if len(replies) == 0 {
		replies = []Reply{Status(http.StatusOK)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[routeKey(method, basePath+strings.TrimPrefix(path, "/"))] = &script{replies: replies}
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Last returns the most recent request, or false when none arrived yet.
func (s *Server) Last() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Calls counts the requests that reached the scripted route.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.scripts[routeKey(method, basePath+strings.TrimPrefix(path, "/"))]; ok {
		return sc.calls
	}
	return 0
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		req.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: req.Method,
			Path:   strings.TrimPrefix(req.URL.Path, basePath),
			Query:  req.URL.Query(),
			Header: req.Header.Clone(),
			Body:   body,
			At:     time.Now(),
		})
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) requestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.log.Debug().
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", c.Response().Status).
			Dur("latency", time.Since(start)).
			Msg("Mock request served")
		return err
	}
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(s.keyHeader) != s.apiKey {
			return c.JSON(http.StatusUnauthorized, map[string]any{"status": 0, "info": "Invalid API key"})
		}
		return next(c)
	}
}

func (s *Server) limit() echo.MiddlewareFunc {
	burst := int(s.rateLimit)
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(s.rateLimit),
			Burst:     burst,
			ExpiresIn: time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.Request().Header.Get(s.keyHeader), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			c.Response().Header().Set("Retry-After", "1")
			return c.JSON(http.StatusTooManyRequests, map[string]any{"status": 0, "info": "Too many requests"})
		},
	})
}

func (s *Server) dispatch(c echo.Context) error {
	req := c.Request()

	s.mu.Lock()
	sc, ok := s.scripts[routeKey(req.Method, req.URL.Path)]
	var reply Reply
	if ok {
		reply = sc.next()
	}
	s.mu.Unlock()

	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"status": 0, "info": "Not found"})
	}

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-req.Context().Done():
			return nil
		}
	}

	for key, values := range reply.Header {
		for _, v := range values {
			c.Response().Header().Add(key, v)
		}
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	if len(reply.Body) == 0 {
		return c.NoContent(status)
	}
	contentType := reply.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(status, contentType, reply.Body)
}
