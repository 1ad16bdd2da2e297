package httpclient

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// ContextWithRequestID stores a request id for PropagateRequestID to forward.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored in ctx.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDInterceptor sets X-Request-Id on every request that does not
// already carry one, generating a UUID.
func RequestIDInterceptor() RequestInterceptor {
	return func(_ string, conn Connection, _ *Config) Decision {
		if conn.Header().Get(HeaderRequestID) == "" {
			conn.SetHeader(HeaderRequestID, uuid.New().String())
		}
		return Continue()
	}
}

// PropagateRequestID is a header producer that forwards the id in ctx or
// generates a fresh one.
func PropagateRequestID(ctx context.Context) HeaderValue {
	return func() string {
		if id := RequestIDFromContext(ctx); id != "" {
			return id
		}
		return uuid.New().String()
	}
}
