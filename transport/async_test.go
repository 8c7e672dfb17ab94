package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoMatchesExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/"+contactsPath+"/missing" {
			writeJSON(w, http.StatusNotFound, `{"message":"Contact not found"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"c1"}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL)
	ctx := context.Background()

	syncResp, syncErr := exec.Execute(ctx, Get(contactsPath+"/c1", nil))
	asyncResp, asyncErr := exec.Go(ctx, Get(contactsPath+"/c1", nil)).Wait(ctx)
	require.NoError(t, syncErr)
	require.NoError(t, asyncErr)
	assert.Equal(t, syncResp.Kind, asyncResp.Kind)
	assert.Equal(t, syncResp.Object, asyncResp.Object)
	assert.Equal(t, syncResp.Attempts, asyncResp.Attempts)

	_, syncErr = exec.Execute(ctx, Get(contactsPath+"/missing", nil))
	_, asyncErr = exec.Go(ctx, Get(contactsPath+"/missing", nil)).Result()
	assert.True(t, IsErrorType(syncErr, NotFoundError))
	assert.True(t, IsErrorType(asyncErr, NotFoundError))
}

func TestCallWaitAbortsOnContextEnd(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, `{}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) { b.WithRetries(5, 10*time.Second) })
	exec.sleep = sleepContext

	call := exec.Go(context.Background(), Get(contactsPath, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := call.Wait(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
	select {
	case <-call.Done():
	default:
		t.Fatal("call still running after Wait returned")
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestCallCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL, func(b *Builder) { b.WithRetries(5, 10*time.Second) })
	exec.sleep = sleepContext

	call := exec.Go(context.Background(), Get(contactsPath, nil))
	time.Sleep(50 * time.Millisecond)
	call.Cancel()
	call.Cancel()

	_, err := call.Result()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDrainWaitsForBackgroundCalls(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL)
	call := exec.Go(context.Background(), Get(contactsPath, nil))

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, exec.Drain(short), context.DeadlineExceeded)

	close(release)
	require.NoError(t, exec.Drain(context.Background()))
	_, err := call.Result()
	assert.NoError(t, err)
}

func TestFailedCall(t *testing.T) {
	call := Failed(ErrInvalidRequest)

	select {
	case <-call.Done():
	default:
		t.Fatal("failed call must already be done")
	}
	call.Cancel()
	resp, err := call.Wait(context.Background())
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
