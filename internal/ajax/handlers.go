package ajax

import (
	"context"
	"fmt"
	"io"
)

// Handlers receive the outcome of a call. Error is required; Success may be nil.
type Handlers struct {
	Success func(*Response)
	Error   func(*Error)
}

// AlertTo returns an error handler that writes the error message to w
func AlertTo(w io.Writer) func(*Error) {
	return func(e *Error) {
		fmt.Fprintln(w, e.Message)
	}
}

// Call is an in-flight asynchronous request
type Call struct {
	done chan struct{}
	err  error
}

// Go sends the request on a new goroutine. Handlers run on that goroutine.
func (c *Client) Go(ctx context.Context, method Method, rawURL string, payload any, h Handlers) *Call {
	call := &Call{done: make(chan struct{})}
	go func() {
		defer close(call.done)
		call.err = c.dispatch(ctx, method, rawURL, payload, h)
	}()
	return call
}

// Done is closed once the call has finished and its handler has returned
func (call *Call) Done() <-chan struct{} {
	return call.done
}

// Wait blocks until the call finishes. It returns the error that kept the
// request from being sent, if any.
func (call *Call) Wait() error {
	<-call.done
	return call.err
}
