package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-holded/requestid"
)

const (
	contactsPath   = "invoicing/v1/contacts"
	jsonType       = "application/json"
	headerCType    = "Content-Type"
	headerRetryAft = "Retry-After"
)

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *sleepRecorder) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}
}

func newTestExecutor(t *testing.T, baseURL string, configure ...func(*Builder)) (*Executor, *sleepRecorder) {
	t.Helper()
	b := NewBuilder(Credentials{APIKey: testAPIKey}).
		WithBaseURL(baseURL).
		WithTimeout(2 * time.Second).
		WithRetryPolicy(testPolicy())
	for _, fn := range configure {
		fn(b)
	}
	exec, err := b.Build()
	require.NoError(t, err)

	rec := &sleepRecorder{}
	exec.sleep = rec.sleep
	return exec, rec
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set(headerCType, jsonType)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestExecuteSendsHeadersAndQuery(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		writeJSON(w, http.StatusOK, `[{"id":"c1"}]`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL+"/api/")
	resp, err := exec.Execute(context.Background(), Get(contactsPath, Query{"page": 2, "phone": nil}).Expect(ShapeArray))
	require.NoError(t, err)

	assert.Equal(t, BodyList, resp.Kind)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, resp.Attempts)
	assert.NotEmpty(t, resp.RequestID)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/invoicing/v1/contacts", got.URL.Path)
	assert.Equal(t, "page=2", got.URL.RawQuery)
	assert.Equal(t, testAPIKey, got.Header.Get("key"))
	assert.Empty(t, got.Header.Get(headerCType))
	assert.Equal(t, DefaultUserAgent, got.Header.Get("User-Agent"))
	assert.Equal(t, resp.RequestID, got.Header.Get(requestid.Header))
}

func TestExecutePostsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, jsonType, r.Header.Get(headerCType))
		assert.JSONEq(t, `{"name":"Acme","isperson":false}`, string(body))
		writeJSON(w, http.StatusCreated, `{"status":1,"info":"Created","id":"c9"}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL)
	body := map[string]any{"name": "Acme", "isperson": false}
	resp, err := exec.Execute(context.Background(), Post(contactsPath, body))
	require.NoError(t, err)

	var ack struct {
		Status int    `json:"status"`
		ID     string `json:"id"`
	}
	require.NoError(t, resp.DecodeObject(&ack))
	assert.Equal(t, "c9", ack.ID)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestExecuteRetriesTransientFailuresThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(requestid.Header))
		mu.Unlock()
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, `{"message":"try later"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"c1"}`)
	}))
	defer server.Close()

	exec, rec := newTestExecutor(t, server.URL)
	resp, err := exec.Execute(context.Background(), Get(contactsPath+"/c1", nil))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Attempts)
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, rec.recorded())
	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1], "request id is shared by all attempts")
	assert.Equal(t, ids[0], ids[2])
}

func TestExecuteGivesUpWhenBudgetIsSpent(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
		is     error
	}{
		{status: http.StatusTooManyRequests, want: RateLimitError, is: ErrRateLimited},
		{status: http.StatusInternalServerError, want: ServerError, is: ErrServer},
		{status: http.StatusBadGateway, want: ServerError, is: ErrServer},
		{status: http.StatusServiceUnavailable, want: ServerError, is: ErrServer},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				writeJSON(w, tt.status, `{"message":"boom"}`)
			}))
			defer server.Close()

			exec, rec := newTestExecutor(t, server.URL)
			_, err := exec.Execute(context.Background(), Get(contactsPath, nil))
			require.Error(t, err)

			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, e.Type)
			assert.Equal(t, tt.status, e.StatusCode)
			assert.Equal(t, "boom", e.Message)
			assert.Equal(t, testPolicy().MaxAttempts, e.Attempts)
			assert.NotEmpty(t, e.RequestID)
			assert.ErrorIs(t, err, tt.is)
			assert.EqualValues(t, testPolicy().MaxAttempts, calls.Load())

			delays := rec.recorded()
			require.Len(t, delays, testPolicy().MaxAttempts-1)
			assert.Less(t, delays[0], delays[1])
		})
	}
}

func TestExecuteDoesNotRetryTerminalFailures(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   ErrorType
	}{
		{status: http.StatusBadRequest, body: `{"message":"name is required"}`, want: ValidationError},
		{status: http.StatusBadRequest, body: `{"info":"Contact not found"}`, want: NotFoundError},
		{status: http.StatusUnauthorized, body: `{"message":"unauthorized"}`, want: AuthenticationError},
		{status: http.StatusForbidden, body: ``, want: AuthenticationError},
		{status: http.StatusNotFound, body: `{}`, want: NotFoundError},
		{status: http.StatusRequestTimeout, body: ``, want: ValidationError},
		{status: http.StatusUnprocessableEntity, body: `{"errors":[{"message":"bad"}]}`, want: ValidationError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%s", tt.status, tt.want), func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				writeJSON(w, tt.status, tt.body)
			}))
			defer server.Close()

			exec, rec := newTestExecutor(t, server.URL)
			_, err := exec.Execute(context.Background(), Get(contactsPath, nil))

			assert.True(t, IsErrorType(err, tt.want), "got %v", err)
			assert.True(t, IsHTTPStatusError(err, tt.status))
			assert.EqualValues(t, 1, calls.Load())
			assert.Empty(t, rec.recorded())
		})
	}
}

func TestExecuteValidationErrorKeepsBody(t *testing.T) {
	const body = `{"message": "name is required"}`
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, http.StatusUnprocessableEntity, body)
	}))
	defer server.Close()

	exec, rec := newTestExecutor(t, server.URL)
	_, err := exec.Execute(context.Background(), Post(contactsPath, map[string]any{"email": "a@b.c"}))
	require.Error(t, err)

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ValidationError, e.Type)
	assert.Equal(t, http.StatusUnprocessableEntity, e.StatusCode)
	assert.Contains(t, string(e.Body), "name is required")
	assert.Equal(t, "name is required", e.Message)
	assert.Equal(t, 1, e.Attempts)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualValues(t, 1, calls.Load())
	assert.Empty(t, rec.recorded())
}

func TestExecuteHonoursRetryAfter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set(headerRetryAft, "2")
			writeJSON(w, http.StatusTooManyRequests, `{"message":"slow down"}`)
			return
		}
		writeJSON(w, http.StatusOK, `[]`)
	}))
	defer server.Close()

	exec, rec := newTestExecutor(t, server.URL)
	resp, err := exec.Execute(context.Background(), Get(contactsPath, nil))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Attempts)
	assert.EqualValues(t, 3, calls.Load())
	delays := rec.recorded()
	require.Len(t, delays, 2)
	for i, d := range delays {
		assert.GreaterOrEqual(t, d, 2*time.Second, "retry %d waited %s", i+1, d)
	}
}

func TestExecuteRetryAfterWaitsInRealTime(t *testing.T) {
	if testing.Short() {
		t.Skip("waits two seconds")
	}
	var mu sync.Mutex
	var sent []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		sent = append(sent, time.Now())
		n := len(sent)
		mu.Unlock()
		if n == 1 {
			w.Header().Set(headerRetryAft, "2")
			writeJSON(w, http.StatusTooManyRequests, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `[]`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL)
	exec.sleep = sleepContext

	_, err := exec.Execute(context.Background(), Get(contactsPath, nil))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 2)
	assert.GreaterOrEqual(t, sent[1].Sub(sent[0]), 2*time.Second)
}

func TestExecuteEchoedBodyRoundTrips(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set(headerCType, jsonType)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	type line struct {
		Name  string  `json:"name"`
		Units float64 `json:"units"`
	}
	type document struct {
		ContactID string            `json:"contactId"`
		Date      int64             `json:"date"`
		Tags      []string          `json:"tags"`
		Items     []line            `json:"items"`
		Custom    map[string]string `json:"customFields"`
	}
	sent := document{
		ContactID: "c1",
		Date:      1704067200,
		Tags:      []string{"a", "b"},
		Items:     []line{{Name: "Consulting", Units: 1.5}},
		Custom:    map[string]string{"ref": "PO-7"},
	}

	exec, _ := newTestExecutor(t, server.URL)
	resp, err := exec.Execute(context.Background(), Post("invoicing/v1/documents/invoice", sent).Expect(ShapeObject))
	require.NoError(t, err)

	var got document
	require.NoError(t, resp.DecodeObject(&got))
	assert.Equal(t, sent, got)
}

func TestExecuteRateLimitExhaustedKeepsHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerRetryAft, "7")
		writeJSON(w, http.StatusTooManyRequests, ``)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) { b.WithRetryPolicy(NoRetry()) })
	_, err := exec.Execute(context.Background(), Get(contactsPath, nil))

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, RateLimitError, e.Type)
	assert.Equal(t, 7*time.Second, e.RetryAfter)
	assert.Equal(t, http.StatusText(http.StatusTooManyRequests), e.Message)
}

func TestExecuteAttemptTimeoutIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"c1"}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) { b.WithTimeout(100 * time.Millisecond) })
	resp, err := exec.Execute(context.Background(), Get(contactsPath+"/c1", nil))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Attempts)
}

func TestExecuteTimeoutExhaustsBudget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) {
		b.WithTimeout(50 * time.Millisecond).WithRetries(2, time.Millisecond)
	})
	_, err := exec.Execute(context.Background(), Get(contactsPath, nil))

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, TimeoutError, e.Type)
	assert.Equal(t, 2, e.Attempts)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestExecuteConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	exec, rec := newTestExecutor(t, url)
	_, err := exec.Execute(context.Background(), Get(contactsPath, nil))

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ConnectionError, e.Type)
	assert.Equal(t, 3, e.Attempts)
	assert.NotNil(t, e.Err)
	assert.Len(t, rec.recorded(), 2)
}

func TestExecuteCancellationDuringBackoff(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, `{}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) { b.WithRetries(5, 10*time.Second) })
	exec.sleep = sleepContext

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := exec.Execute(ctx, Get(contactsPath, nil))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, isAPIError := AsError(err)
	assert.False(t, isAPIError)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.EqualValues(t, 1, calls.Load())
}

func TestExecuteWithCanceledContextSendsNothing(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exec.Execute(ctx, Get(contactsPath, nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestExecuteMalformedSuccessBodyIsTerminal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{"id":`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL)
	_, err := exec.Execute(context.Background(), Get(contactsPath, nil))

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, APIError, e.Type)
	assert.Equal(t, http.StatusOK, e.StatusCode)
	assert.Equal(t, http.MethodGet, e.Method)
	assert.EqualValues(t, 1, calls.Load())
}

func TestExecuteRejectsInvalidRequests(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL+"/api/")

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "nil", req: nil},
		{name: "empty_path", req: Get("  ", nil)},
		{name: "slash_path", req: Get("/", nil)},
		{name: "absolute_url", req: Get("https://evil.example/x", nil)},
		{name: "bad_method", req: NewRequest("TRACE", contactsPath)},
		{name: "patch", req: NewRequest(http.MethodPatch, contactsPath)},
		{name: "head", req: NewRequest(http.MethodHead, contactsPath)},
		{name: "unencodable_body", req: Post(contactsPath, func() {})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exec.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
	assert.Zero(t, calls.Load(), "rejected requests are never sent")
}

func TestExecuteCustomKeyHeaderCannotBeOverridden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.Header.Get("X-Api-Key"))
		assert.Empty(t, r.Header.Get("key"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) { b.WithAPIKeyHeader("X-Api-Key") })
	req := Get(contactsPath, nil)
	req.Header = http.Header{"X-Api-Key": {"spoofed"}, "X-Extra": {"yes"}}

	_, err := exec.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecuteInterceptors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "intercepted", r.Header.Get("X-Intercepted"))
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	var seen atomic.Int32
	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) {
		b.WithRequestInterceptor(func(_ context.Context, req *http.Request) error {
			req.Header.Set("X-Intercepted", "intercepted")
			return nil
		}).WithResponseInterceptor(func(_ context.Context, _ *http.Request, resp *http.Response) error {
			seen.Add(1)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			return nil
		})
	})
	_, err := exec.Execute(context.Background(), Get(contactsPath, nil))
	require.NoError(t, err)
	assert.EqualValues(t, 1, seen.Load())

	failing, _ := newTestExecutor(t, server.URL, func(b *Builder) {
		b.WithRequestInterceptor(func(context.Context, *http.Request) error { return errors.New("denied") })
	})
	_, err = failing.Execute(context.Background(), Get(contactsPath, nil))
	assert.True(t, IsErrorType(err, APIError))
}

func TestExecuteConcurrentCallsDoNotShareState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"id":%q}`, r.URL.Query().Get("n")))
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := exec.Execute(context.Background(), Get(contactsPath, Query{"n": i}))
			if !assert.NoError(t, err) {
				return
			}
			var got struct {
				ID string `json:"id"`
			}
			assert.NoError(t, resp.DecodeObject(&got))
			assert.Equal(t, fmt.Sprint(i), got.ID)
		}()
	}
	wg.Wait()
}

func TestExecuteWithRateLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) { b.WithRateLimit(1000, 5) })
	require.NotNil(t, exec.limiter)
	for i := 0; i < 3; i++ {
		_, err := exec.Execute(context.Background(), Get(contactsPath, nil))
		require.NoError(t, err)
	}

	slow, _ := newTestExecutor(t, server.URL, func(b *Builder) { b.WithRateLimit(0.01, 1) })
	_, err := slow.Execute(context.Background(), Get(contactsPath, nil))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = slow.Execute(ctx, Get(contactsPath, nil))
	assert.True(t, IsErrorType(err, TimeoutError), "wait beyond the deadline fails fast, got %v", err)
}

func TestExecuteRetryObserver(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusBadGateway, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	var states []RetryState
	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) {
		b.WithRetryObserver(func(s RetryState, d Decision) {
			assert.True(t, d.Retry)
			states = append(states, s)
		})
	})
	_, err := exec.Execute(context.Background(), Get(contactsPath, nil))
	require.NoError(t, err)

	require.Len(t, states, 1)
	assert.Equal(t, 1, states[0].Attempt)
	assert.Equal(t, ServerError, states[0].LastType)
}

func TestBuildValidation(t *testing.T) {
	_, err := NewBuilder(Credentials{}).Build()
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	for _, raw := range []string{"ftp://api.holded.com", "://bad", "https://", "api.holded.com/api"} {
		_, err := NewBuilder(Credentials{APIKey: testAPIKey}).WithBaseURL(raw).Build()
		assert.Error(t, err, raw)
	}

	_, err = NewBuilder(Credentials{APIKey: testAPIKey}).WithTimeout(-time.Second).Build()
	assert.Error(t, err)

	exec, err := NewBuilder(Credentials{APIKey: testAPIKey}).WithBaseURL("https://api.holded.com/api").Build()
	require.NoError(t, err)
	assert.Equal(t, "https://api.holded.com/api/", exec.BaseURL())
	assert.Equal(t, DefaultMaxAttempts, exec.Policy().MaxAttempts)
}
