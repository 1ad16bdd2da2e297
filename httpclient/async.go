package httpclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/strata/workerpool"
)

// Future is the pending result of an asynchronous exchange.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) complete(v T, err error) {
	f.value, f.err = v, err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the result is available or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// ErrNotReady is returned by Future.Result while the exchange is running.
var ErrNotReady = errors.New("httpclient: future not ready")

// Result returns the result without blocking, or ErrNotReady while pending.
func (f *Future[T]) Result() (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		var zero T
		return zero, ErrNotReady
	}
}

// AsyncClient runs exchanges of a Client on a fixed-size worker pool.
type AsyncClient struct {
	client *Client
	pool   *workerpool.Pool
	owned  bool
}

var (
	defaultPoolOnce sync.Once
	defaultPool     *workerpool.Pool
)

// DefaultPool returns the shared five-worker pool used by NewAsync.
func DefaultPool() *workerpool.Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = workerpool.New(workerpool.DefaultConfig("httpclient"))
	})
	return defaultPool
}

// NewAsync wraps c with the shared default pool. A nil c uses Default().
func NewAsync(c *Client) *AsyncClient {
	return &AsyncClient{client: orDefault(c), pool: DefaultPool()}
}

// NewAsyncWithPool wraps c with a dedicated pool that Close shuts down.
func NewAsyncWithPool(c *Client, cfg workerpool.Config) *AsyncClient {
	return &AsyncClient{client: orDefault(c), pool: workerpool.New(cfg), owned: true}
}

// Client returns the wrapped synchronous client.
func (a *AsyncClient) Client() *Client { return a.client }

// With returns an async client whose synchronous client is c.With(overrides...).
// The pool is shared and stays owned by the receiver.
func (a *AsyncClient) With(overrides ...*Config) *AsyncClient {
	return &AsyncClient{client: a.client.With(overrides...), pool: a.pool}
}

// ExchangeAsync submits the exchange and returns immediately. Submission
// waits for queue space until ctx ends; the exchange itself runs with ctx.
func (a *AsyncClient) ExchangeAsync(ctx context.Context, call Call) *Future[Result] {
	return submit(ctx, a, func() (Result, error) {
		return a.client.Exchange(ctx, call)
	})
}

// Close shuts down a dedicated pool. It is a no-op for the shared pool.
func (a *AsyncClient) Close(ctx context.Context) error {
	if !a.owned {
		return nil
	}
	return a.pool.Close(ctx)
}

// submit runs fn on the pool. Errors and panics reject the future.
func submit[T any](ctx context.Context, a *AsyncClient, fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	task := func() {
		var (
			v   T
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.complete(zero, fmt.Errorf("httpclient: async exchange panicked: %v", r))
				return
			}
			f.complete(v, err)
		}()
		v, err = fn()
	}
	if err := a.pool.Submit(ctx, task); err != nil {
		var zero T
		if errors.Is(err, workerpool.ErrClosed) {
			f.complete(zero, ErrPoolClosed)
		} else {
			f.complete(zero, err)
		}
	}
	return f
}

// GetAsync is the asynchronous form of Get.
func GetAsync[T any](ctx context.Context, a *AsyncClient, path string, overrides ...*Config) *Future[*TypedResponse[T]] {
	return submit(ctx, a, func() (*TypedResponse[T], error) {
		return Get[T](ctx, a.client, path, overrides...)
	})
}

// PostAsync is the asynchronous form of Post.
func PostAsync[T any](ctx context.Context, a *AsyncClient, path string, body any, overrides ...*Config) *Future[*TypedResponse[T]] {
	return submit(ctx, a, func() (*TypedResponse[T], error) {
		return Post[T](ctx, a.client, path, body, overrides...)
	})
}

// PutAsync is the asynchronous form of Put.
func PutAsync[T any](ctx context.Context, a *AsyncClient, path string, body any, overrides ...*Config) *Future[*TypedResponse[T]] {
	return submit(ctx, a, func() (*TypedResponse[T], error) {
		return Put[T](ctx, a.client, path, body, overrides...)
	})
}

// PatchAsync is the asynchronous form of Patch.
func PatchAsync[T any](ctx context.Context, a *AsyncClient, path string, overrides ...*Config) *Future[*TypedResponse[T]] {
	return submit(ctx, a, func() (*TypedResponse[T], error) {
		return Patch[T](ctx, a.client, path, overrides...)
	})
}

// DeleteAsync is the asynchronous form of Delete.
func DeleteAsync[T any](ctx context.Context, a *AsyncClient, path string, overrides ...*Config) *Future[*TypedResponse[T]] {
	return submit(ctx, a, func() (*TypedResponse[T], error) {
		return Delete[T](ctx, a.client, path, overrides...)
	})
}

// HeadAsync is the asynchronous form of Head.
func HeadAsync(ctx context.Context, a *AsyncClient, path string, overrides ...*Config) *Future[*Response] {
	return submit(ctx, a, func() (*Response, error) {
		return Head(ctx, a.client, path, overrides...)
	})
}

// GetForObjectAsync is the asynchronous form of GetForObject.
func GetForObjectAsync[T any](ctx context.Context, a *AsyncClient, path string, overrides ...*Config) *Future[T] {
	return submit(ctx, a, func() (T, error) {
		return GetForObject[T](ctx, a.client, path, overrides...)
	})
}

// PostForObjectAsync is the asynchronous form of PostForObject.
func PostForObjectAsync[T any](ctx context.Context, a *AsyncClient, path string, body any, overrides ...*Config) *Future[T] {
	return submit(ctx, a, func() (T, error) {
		return PostForObject[T](ctx, a.client, path, body, overrides...)
	})
}

// PutForObjectAsync is the asynchronous form of PutForObject.
func PutForObjectAsync[T any](ctx context.Context, a *AsyncClient, path string, body any, overrides ...*Config) *Future[T] {
	return submit(ctx, a, func() (T, error) {
		return PutForObject[T](ctx, a.client, path, body, overrides...)
	})
}

// PatchForObjectAsync is the asynchronous form of PatchForObject.
func PatchForObjectAsync[T any](ctx context.Context, a *AsyncClient, path string, overrides ...*Config) *Future[T] {
	return submit(ctx, a, func() (T, error) {
		return PatchForObject[T](ctx, a.client, path, overrides...)
	})
}

// DeleteForObjectAsync is the asynchronous form of DeleteForObject.
func DeleteForObjectAsync[T any](ctx context.Context, a *AsyncClient, path string, overrides ...*Config) *Future[T] {
	return submit(ctx, a, func() (T, error) {
		return DeleteForObject[T](ctx, a.client, path, overrides...)
	})
}
