package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gaborage/go-holded/logger"
	"github.com/gaborage/go-holded/requestid"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Requester is what resource services need from a transport.
type Requester interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// RequestInterceptor runs before every attempt and may mutate the outgoing request.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// ResponseInterceptor runs after every attempt that received a response.
type ResponseInterceptor func(ctx context.Context, req *http.Request, resp *http.Response) error

// Executor runs logical calls against the Holded API: it builds each attempt,
// classifies failures and retries transient ones according to its RetryPolicy.
// It holds no per-call state and is safe for concurrent use.
type Executor struct {
	baseURL              *url.URL
	headers              HeaderBuilder
	timeout              time.Duration
	policy               RetryPolicy
	limiter              *rate.Limiter
	doer                 Doer
	log                  logger.Logger
	telemetry            *telemetry
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	concurrency          int
	logPayloads          bool
	maxPayloadLog        int
	onRetry              func(RetryState, Decision)
	sleep                func(context.Context, time.Duration) error
	now                  func() time.Time
	inflight             sync.WaitGroup
}

var _ Requester = (*Executor)(nil)

// prepared is the immutable, attempt independent part of a call.
type prepared struct {
	method string
	path   string
	url    string
	host   string
	body   []byte
	header http.Header
	shape  Shape
}

// Policy returns the executor's retry policy.
func (e *Executor) Policy() RetryPolicy {
	return e.policy
}

// BaseURL returns the URL request paths are resolved against.
func (e *Executor) BaseURL() string {
	return e.baseURL.String()
}

// Execute runs req to completion, retrying transient failures, and blocks
// until it succeeds, fails terminally or ctx ends. When ctx ends first the
// returned error wraps ctx.Err().
func (e *Executor) Execute(ctx context.Context, req *Request) (*Response, error) {
	p, err := e.prepare(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, abandoned(p, 0, err)
	}
	return e.run(ctx, p)
}

func (e *Executor) prepare(req *Request) (*prepared, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode body: %v", ErrInvalidRequest, err)
	}

	u := e.baseURL.JoinPath(strings.TrimLeft(req.Path, "/"))
	u.RawQuery = req.Query.Encode()

	header := e.headers.Build(body != nil)
	for k, v := range req.Header {
		if http.CanonicalHeaderKey(k) == http.CanonicalHeaderKey(e.headers.KeyHeader()) {
			continue
		}
		header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}

	return &prepared{
		method: strings.ToUpper(req.Method),
		path:   req.Path,
		url:    u.String(),
		host:   u.Host,
		body:   body,
		header: header,
		shape:  req.Shape,
	}, nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	}
	if rv := reflect.ValueOf(body); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}
	return codec.Marshal(body)
}

func (e *Executor) run(ctx context.Context, p *prepared) (resp *Response, err error) {
	ctx, requestID := requestid.Ensure(ctx)
	ctx, span := e.telemetry.start(ctx, p, requestID)
	start := e.now()
	state := RetryState{}
	defer func() {
		e.telemetry.finish(ctx, span, p, state.Attempt, e.now().Sub(start), resp, err)
	}()

	for {
		if e.limiter != nil {
			if werr := e.limiter.Wait(ctx); werr != nil {
				if ctx.Err() != nil {
					return nil, abandoned(p, state.Attempt, ctx.Err())
				}
				return nil, &Error{
					Type:      TimeoutError,
					Message:   "rate limiter wait would exceed the context deadline",
					Method:    p.method,
					URL:       p.url,
					RequestID: requestID,
					Attempts:  state.Attempt,
					Err:       werr,
				}
			}
		}

		state.Attempt++
		r, failure := e.attempt(ctx, p, state.Attempt)
		if failure == nil {
			r.Attempts = state.Attempt
			r.Duration = e.now().Sub(start)
			r.RequestID = requestID
			e.logSuccess(p, r, requestID)
			return r, nil
		}

		if cerr := ctx.Err(); cerr != nil {
			return nil, abandoned(p, state.Attempt, cerr)
		}

		state.Elapsed = e.now().Sub(start)
		state.LastType = failure.Type
		state.LastHint = failure.RetryAfter
		decision := e.policy.Decide(state.Attempt, failure.Type, failure.RetryAfter)
		if !decision.Retry {
			failure.Attempts = state.Attempt
			failure.RequestID = requestID
			e.logFailure(p, failure)
			return nil, failure
		}

		e.telemetry.recordRetry(ctx, p, state, decision)
		e.logRetry(p, state, decision, failure, requestID)
		if e.onRetry != nil {
			e.onRetry(state, decision)
		}
		if serr := e.sleep(ctx, decision.Delay); serr != nil {
			return nil, abandoned(p, state.Attempt, serr)
		}
	}
}

func (e *Executor) attempt(ctx context.Context, p *prepared, n int) (*Response, *Error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var body io.Reader
	if p.body != nil {
		body = bytes.NewReader(p.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, p.method, p.url, body)
	if err != nil {
		return nil, e.failure(p, APIError, "failed to build request", err)
	}
	httpReq.Header = p.header.Clone()
	requestid.Inject(ctx, httpReq.Header)
	e.telemetry.inject(ctx, httpReq.Header)

	for _, interceptor := range e.requestInterceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, e.failure(p, APIError, "request interceptor failed", err)
		}
	}

	e.logAttempt(p, n, httpReq.Header.Get(requestid.Header))

	httpResp, err := e.doer.Do(httpReq)
	if err != nil {
		failure := e.networkFailure(p, err)
		e.telemetry.recordAttempt(ctx, p, 0, failure.Type)
		return nil, failure
	}
	defer httpResp.Body.Close()

	for _, interceptor := range e.responseInterceptors {
		if err := interceptor(ctx, httpReq, httpResp); err != nil {
			e.telemetry.recordAttempt(ctx, p, httpResp.StatusCode, APIError)
			return nil, e.failure(p, APIError, "response interceptor failed", err)
		}
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		failure := e.networkFailure(p, err)
		failure.StatusCode = httpResp.StatusCode
		e.telemetry.recordAttempt(ctx, p, httpResp.StatusCode, failure.Type)
		return nil, failure
	}
	e.logPayload(p, "response_body", data)

	if !IsSuccessStatus(httpResp.StatusCode) {
		failure := e.statusFailure(p, httpResp, data)
		e.telemetry.recordAttempt(ctx, p, httpResp.StatusCode, failure.Type)
		return nil, failure
	}

	resp, err := Decode(data, httpResp.Header.Get("Content-Type"), p.shape)
	if err != nil {
		failure, ok := AsError(err)
		if !ok {
			failure = &Error{Type: APIError, Message: "failed to decode response", Err: err}
		}
		failure.Method, failure.URL, failure.StatusCode = p.method, p.url, httpResp.StatusCode
		e.telemetry.recordAttempt(ctx, p, httpResp.StatusCode, failure.Type)
		return nil, failure
	}
	resp.StatusCode = httpResp.StatusCode
	resp.Header = httpResp.Header
	if resp.ShapeMismatch {
		e.log.Warn().
			Str("method", p.method).
			Str("path", p.path).
			Str("expected", p.shape.String()).
			Str("got", resp.Kind.String()).
			Msg("Holded response shape differs from the expected one")
	}
	e.telemetry.recordAttempt(ctx, p, httpResp.StatusCode, "")
	return resp, nil
}

func (e *Executor) failure(p *prepared, kind ErrorType, msg string, err error) *Error {
	return &Error{Type: kind, Message: msg, Method: p.method, URL: p.url, Err: err}
}

func (e *Executor) networkFailure(p *prepared, err error) *Error {
	if isTimeout(err) {
		return e.failure(p, TimeoutError, fmt.Sprintf("no response within %s", e.timeout), err)
	}
	return e.failure(p, ConnectionError, "connection failed", err)
}

func (e *Executor) statusFailure(p *prepared, resp *http.Response, body []byte) *Error {
	kind := Classify(resp.StatusCode, body)
	msg := ExtractMessage(body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	var hint time.Duration
	if kind.Transient() {
		if d, ok := ParseRetryAfter(resp.Header.Get("Retry-After"), e.now()); ok {
			hint = d
		}
	}
	return &Error{
		Type:       kind,
		StatusCode: resp.StatusCode,
		Message:    msg,
		Body:       body,
		RetryAfter: hint,
		Method:     p.method,
		URL:        p.url,
	}
}

// isTimeout checks if the error is a timeout error.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// abandoned wraps the context error that ended a call early.
func abandoned(p *prepared, attempts int, cause error) error {
	return fmt.Errorf("holded: %s %s abandoned after %d attempt(s): %w", p.method, p.path, attempts, cause)
}

// sleepContext waits for d or until ctx ends, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
