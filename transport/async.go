package transport

import (
	"context"
)

// Call is a logical call running in the background. It shares the retry loop
// of Execute and yields the same results.
type Call struct {
	done   chan struct{}
	cancel context.CancelFunc
	resp   *Response
	err    error
}

// Go starts req in the background and returns immediately. Cancelling ctx or
// calling Cancel aborts the call, including any pending backoff wait.
func (e *Executor) Go(ctx context.Context, req *Request) *Call {
	ctx, cancel := context.WithCancel(ctx)
	c := &Call{done: make(chan struct{}), cancel: cancel}
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		defer close(c.done)
		defer cancel()
		c.resp, c.err = e.Execute(ctx, req)
	}()
	return c
}

// Done is closed once the call has finished.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Cancel aborts the call. It is safe to call more than once.
func (c *Call) Cancel() {
	c.cancel()
}

// Wait blocks until the call finishes or ctx ends. When ctx ends first the
// call is aborted and Wait returns once it has stopped, so nothing keeps
// running in the background.
func (c *Call) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		c.cancel()
		<-c.done
	}
	return c.resp, c.err
}

// Result blocks until the call finishes.
func (c *Call) Result() (*Response, error) {
	<-c.done
	return c.resp, c.err
}

// Drain waits for every call started with Go to finish, or for ctx to end.
func (e *Executor) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Failed returns a call that has already finished with err.
func Failed(err error) *Call {
	c := &Call{done: make(chan struct{}), cancel: func() {}, err: err}
	close(c.done)
	return c
}
