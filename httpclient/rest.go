package httpclient

import (
	"context"
	"sync"
)

var (
	defaultClientOnce sync.Once
	defaultClient     *Client
)

// Default returns the shared client built from DefaultConfig alone. The
// generic helpers use it when given a nil *Client.
func Default() *Client {
	defaultClientOnce.Do(func() {
		defaultClient = New(nil)
	})
	return defaultClient
}

// Get performs a GET request and decodes the body into T. A nil response
// with a nil error means an interceptor declined the exchange or the error
// handler swallowed a status error.
func Get[T any](ctx context.Context, c *Client, path string, overrides ...*Config) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, MethodGet, path, nil, overrides)
}

// Post performs a POST request with body and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, overrides ...*Config) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, MethodPost, path, body, overrides)
}

// Put performs a PUT request with body and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, path string, body any, overrides ...*Config) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, MethodPut, path, body, overrides)
}

// Patch performs a PATCH request and decodes the response into T. PATCH does
// not write a body; send one with a ConnectionHook if the server needs it.
func Patch[T any](ctx context.Context, c *Client, path string, overrides ...*Config) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, MethodPatch, path, nil, overrides)
}

// Delete performs a DELETE request and decodes the response into T.
func Delete[T any](ctx context.Context, c *Client, path string, overrides ...*Config) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, MethodDelete, path, nil, overrides)
}

// Head performs a HEAD request. The response never has a body.
func Head(ctx context.Context, c *Client, path string, overrides ...*Config) (*Response, error) {
	return orDefault(c).Execute(ctx, Call{Method: MethodHead, Path: path, Overrides: overrides})
}

// GetForObject is Get returning only the decoded body.
func GetForObject[T any](ctx context.Context, c *Client, path string, overrides ...*Config) (T, error) {
	return dataOf[T](Get[T](ctx, c, path, overrides...))
}

// PostForObject is Post returning only the decoded body.
func PostForObject[T any](ctx context.Context, c *Client, path string, body any, overrides ...*Config) (T, error) {
	return dataOf[T](Post[T](ctx, c, path, body, overrides...))
}

// PutForObject is Put returning only the decoded body.
func PutForObject[T any](ctx context.Context, c *Client, path string, body any, overrides ...*Config) (T, error) {
	return dataOf[T](Put[T](ctx, c, path, body, overrides...))
}

// PatchForObject is Patch returning only the decoded body.
func PatchForObject[T any](ctx context.Context, c *Client, path string, overrides ...*Config) (T, error) {
	return dataOf[T](Patch[T](ctx, c, path, overrides...))
}

// DeleteForObject is Delete returning only the decoded body.
func DeleteForObject[T any](ctx context.Context, c *Client, path string, overrides ...*Config) (T, error) {
	return dataOf[T](Delete[T](ctx, c, path, overrides...))
}

func doTyped[T any](ctx context.Context, c *Client, method Method, path string, body any, overrides []*Config) (*TypedResponse[T], error) {
	resp, err := orDefault(c).Execute(ctx, Call{
		Method:    method,
		Path:      path,
		Body:      body,
		Target:    new(T),
		Overrides: overrides,
	})
	if err != nil || resp == nil {
		return nil, err
	}
	return typed[T](resp), nil
}

func dataOf[T any](resp *TypedResponse[T], err error) (T, error) {
	var zero T
	if err != nil || resp == nil {
		return zero, err
	}
	return resp.Data, nil
}

func orDefault(c *Client) *Client {
	if c == nil {
		return Default()
	}
	return c
}
