package holded

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-holded/api/invoicing"
	"github.com/gaborage/go-holded/config"
	"github.com/gaborage/go-holded/testing/mockserver"
	"github.com/gaborage/go-holded/transport"
)

const contactsPath = "invoicing/v1/contacts"

func newTestClient(t *testing.T, srv *mockserver.Server, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(srv.URL()),
		WithHTTPClient(srv.Client()),
		WithRetries(3, time.Millisecond),
	}
	c, err := New(srv.APIKey(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("  ")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("key", WithBaseURL("ftp://example.com"))
	assert.Error(t, err)
}

func TestClientRetriesServerErrors(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath,
		mockserver.Error(http.StatusServiceUnavailable, "busy"),
		mockserver.JSON(http.StatusOK, []invoicing.Contact{{ID: "c1", Name: "Acme"}}),
	)
	c := newTestClient(t, srv)

	contacts, err := c.Invoicing.Contacts.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Acme", contacts[0].Name)
	assert.Equal(t, 2, srv.Calls(http.MethodGet, contactsPath))
}

func TestClientReturnsTypedErrors(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath+"/missing", mockserver.Error(http.StatusNotFound, "Contact not found"))
	c := newTestClient(t, srv)

	_, err := c.Get(context.Background(), contactsPath+"/missing", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, NotFoundError, apiErr.Type)
	assert.Equal(t, "Contact not found", apiErr.Message)
	assert.Equal(t, 1, apiErr.Attempts)
}

func TestClientWrongKeyIsAuthenticationError(t *testing.T) {
	srv := mockserver.New(t)
	c, err := New("wrong", WithBaseURL(srv.URL()), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), contactsPath, nil)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Equal(t, 1, srv.Calls(http.MethodGet, contactsPath))
}

func TestClientRawHelpers(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodPost, contactsPath, mockserver.Ack("c9"))
	srv.On(http.MethodPut, contactsPath+"/c9", mockserver.Ack("c9"))
	srv.On(http.MethodDelete, contactsPath+"/c9", mockserver.Ack("c9"))
	c := newTestClient(t, srv)
	ctx := context.Background()

	resp, err := c.Post(ctx, contactsPath, map[string]string{"name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	last, ok := srv.Last()
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Acme"}`, string(last.Body))
	assert.Equal(t, srv.APIKey(), last.Header.Get("key"))

	_, err = c.Put(ctx, contactsPath+"/c9", map[string]string{"name": "Acme Corp"})
	require.NoError(t, err)
	_, err = c.Delete(ctx, contactsPath+"/c9")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Calls(http.MethodDelete, contactsPath+"/c9"))
}

func TestClientDownload(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
	srv := mockserver.New(t)
	srv.On(http.MethodGet, "invoicing/v1/documents/invoice/d1/pdf", mockserver.Raw(http.StatusOK, "application/pdf", pdf))
	c := newTestClient(t, srv)

	file, err := c.Download(context.Background(), "invoicing/v1/documents/invoice/d1/pdf")
	require.NoError(t, err)
	assert.Equal(t, pdf, file.Data)
	assert.Equal(t, "application/pdf", file.MediaType)
}

func TestClientExecuteAll(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath+"/a", mockserver.JSON(http.StatusOK, map[string]string{"id": "a"}))
	srv.On(http.MethodGet, contactsPath+"/b", mockserver.JSON(http.StatusOK, map[string]string{"id": "b"}))
	c := newTestClient(t, srv, WithConcurrency(2))

	resps, err := c.ExecuteAll(context.Background(), []*Request{
		transport.Get(contactsPath+"/a", nil),
		transport.Get(contactsPath+"/b", nil),
	})
	require.NoError(t, err)
	require.Len(t, resps, 2)
	assert.JSONEq(t, `{"id":"a"}`, string(resps[0].Body()))
	assert.JSONEq(t, `{"id":"b"}`, string(resps[1].Body()))
}

func TestClosedClientRejectsCalls(t *testing.T) {
	srv := mockserver.New(t)
	c := newTestClient(t, srv)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Get(context.Background(), contactsPath, nil)
	assert.ErrorIs(t, err, ErrClientClosed)

	_, err = c.Go(context.Background(), transport.Get(contactsPath, nil)).Result()
	assert.ErrorIs(t, err, ErrClientClosed)

	_, err = c.ExecuteAll(context.Background(), []*Request{transport.Get(contactsPath, nil)})
	assert.ErrorIs(t, err, ErrClientClosed)
	assert.Empty(t, srv.Requests())
}

func TestShutdownDrainsBackgroundCalls(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath, mockserver.JSON(http.StatusOK, []invoicing.Contact{}).WithDelay(50*time.Millisecond))
	c := newTestClient(t, srv)

	call := c.Go(context.Background(), transport.Get(contactsPath, nil))
	require.NoError(t, c.Shutdown(context.Background()))

	select {
	case <-call.Done():
	default:
		t.Fatal("shutdown returned before the background call finished")
	}
	resp, err := call.Result()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestShutdownWaitsForEveryAcceptedCall(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath, mockserver.JSON(http.StatusOK, []invoicing.Contact{}).WithDelay(5*time.Millisecond))
	c := newTestClient(t, srv)

	const callers = 32
	calls := make(chan *Call, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			calls <- c.Go(context.Background(), transport.Get(contactsPath, nil))
		}()
	}

	close(start)
	require.NoError(t, c.Shutdown(context.Background()))
	wg.Wait()
	close(calls)

	for call := range calls {
		select {
		case <-call.Done():
		default:
			t.Fatal("a call accepted before shutdown was still running after it returned")
		}
		if _, err := call.Result(); err != nil {
			assert.ErrorIs(t, err, ErrClientClosed)
		}
	}
}

func TestShutdownHonoursDeadline(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath, mockserver.JSON(http.StatusOK, []invoicing.Contact{}).WithDelay(500*time.Millisecond))
	c := newTestClient(t, srv)

	call := c.Go(context.Background(), transport.Get(contactsPath, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.Shutdown(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	call.Cancel()
	_, _ = call.Result()
}

func TestNewFromConfig(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath, mockserver.JSON(http.StatusOK, []invoicing.Contact{{ID: "c1", Name: "Acme"}}))

	cfg, err := config.LoadWith(config.Options{
		Environ: func() []string {
			return []string{
				"HOLDED_API_KEY=" + srv.APIKey(),
				"HOLDED_API_URL=" + srv.URL(),
				"HOLDED_RETRY_ATTEMPTS=5",
				"HOLDED_LOG_LEVEL=disabled",
			}
		},
	})
	require.NoError(t, err)

	c, err := NewFromConfig(cfg, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 5, c.RetryPolicy().MaxAttempts)
	contacts, err := c.Invoicing.Contacts.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestNewFromConfigNil(t *testing.T) {
	_, err := NewFromConfig(nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
