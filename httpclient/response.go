package httpclient

import (
	"fmt"
	"net/http"
)

// Response is the outcome of a completed HTTP exchange.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status message sent by the server.
	Status string
	// Header holds the response headers.
	Header http.Header
	// Config is the effective configuration the exchange ran with.
	Config *Config
	// URL is the full request URL including the query string.
	URL string
	// Body is the decoded body. It is nil for HEAD; for status errors it is
	// the error stream as a string.
	Body any
}

// SetBody replaces the body. Response interceptors use it to rewrite results.
func (r *Response) SetBody(body any) { r.Body = body }

// String renders a short description.
func (r *Response) String() string {
	return fmt.Sprintf("Response{status=%d, url=%s, body=%v}", r.StatusCode, r.URL, r.Body)
}

// TypedResponse is a Response whose body is known to be of type T.
type TypedResponse[T any] struct {
	*Response
	// Data is the decoded body.
	Data T
}

// typed converts resp into a TypedResponse, taking Data from resp.Body when
// it holds a T or a *T.
func typed[T any](resp *Response) *TypedResponse[T] {
	if resp == nil {
		return nil
	}
	out := &TypedResponse[T]{Response: resp}
	switch v := resp.Body.(type) {
	case T:
		out.Data = v
	case *T:
		if v != nil {
			out.Data = *v
		}
	}
	return out
}

// Outcome tells how an exchange ended.
type Outcome int

const (
	// OutcomeCompleted means a response was produced and passed every interceptor.
	OutcomeCompleted Outcome = iota
	// OutcomeDeclined means an interceptor aborted the exchange.
	OutcomeDeclined
	// OutcomeRejected means the status was classified as an error and routed
	// to the error handler.
	OutcomeRejected
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeDeclined:
		return "declined"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is returned by Exchange. Response is set only for OutcomeCompleted.
type Result struct {
	Response *Response
	Outcome  Outcome
	// Reason carries the abort reason for OutcomeDeclined.
	Reason string
	// Err carries the status error for OutcomeRejected.
	Err *StatusError
}

// Completed reports whether the exchange produced a value.
func (r Result) Completed() bool { return r.Outcome == OutcomeCompleted }
