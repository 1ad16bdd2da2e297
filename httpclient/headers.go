package httpclient

import (
	"net/http"
	"strings"
)

// HeaderValue produces a header value at the moment headers are applied to a
// connection. It is invoked once per request.
type HeaderValue func() string

// Common header names.
const (
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderCacheControl  = "Cache-Control"
	HeaderContentType   = "Content-Type"
	HeaderPragma        = "Pragma"
	HeaderRequestID     = "X-Request-Id"
	HeaderUserAgent     = "User-Agent"
)

// Common content types.
const (
	ContentTypeJSON = "application/json"
	ContentTypeYAML = "application/yaml"
	ContentTypeText = "text/plain"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Headers is an ordered set of request headers keyed by canonical name. A
// value is either fixed or computed per request by a HeaderValue.
//
// The zero value is ready to use. Headers placed in a Config must not be
// modified afterwards; layering copies them.
type Headers struct {
	keys   []string
	values map[string]HeaderValue
}

// NewHeaders returns empty headers.
func NewHeaders() *Headers {
	return &Headers{values: make(map[string]HeaderValue)}
}

// HeadersFrom builds headers from a plain map. Keys are sorted for a stable order.
func HeadersFrom(m map[string]string) *Headers {
	h := NewHeaders()
	for _, k := range sortedKeys(m) {
		h.Set(k, m[k])
	}
	return h
}

// Set stores a fixed value for name, replacing any earlier value.
func (h *Headers) Set(name, value string) *Headers {
	return h.SetFunc(name, func() string { return value })
}

// SetFunc stores a value producer for name, replacing any earlier value.
func (h *Headers) SetFunc(name string, fn HeaderValue) *Headers {
	if h.values == nil {
		h.values = make(map[string]HeaderValue)
	}
	key := http.CanonicalHeaderKey(name)
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = fn
	return h
}

// Del removes name.
func (h *Headers) Del(name string) *Headers {
	key := http.CanonicalHeaderKey(name)
	if _, ok := h.values[key]; !ok {
		return h
	}
	delete(h.values, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i:i], h.keys[i+1:]...)
			break
		}
	}
	return h
}

// Has reports whether name is present.
func (h *Headers) Has(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h.values[http.CanonicalHeaderKey(name)]
	return ok
}

// Get evaluates and returns the value for name, or "" when absent.
func (h *Headers) Get(name string) string {
	if h == nil {
		return ""
	}
	return h.eval(http.CanonicalHeaderKey(name))
}

// eval runs the producer for a canonical key. A missing or nil producer
// yields "".
func (h *Headers) eval(key string) string {
	if fn := h.values[key]; fn != nil {
		return fn()
	}
	return ""
}

// Keys returns the header names in insertion order.
func (h *Headers) Keys() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.keys)
}

// Resolve evaluates every value producer and returns the result as an
// http.Header in insertion order of evaluation.
func (h *Headers) Resolve() http.Header {
	out := make(http.Header, h.Len())
	if h == nil {
		return out
	}
	for _, k := range h.keys {
		out[k] = []string{h.eval(k)}
	}
	return out
}

// Clone returns an independent copy. Value producers are shared.
func (h *Headers) Clone() *Headers {
	out := NewHeaders()
	if h == nil {
		return out
	}
	out.keys = make([]string, len(h.keys))
	copy(out.keys, h.keys)
	for k, v := range h.values {
		out.values[k] = v
	}
	return out
}

// Config wraps the headers into a configuration layer.
func (h *Headers) Config() *Config {
	return &Config{Headers: h.Clone()}
}

// SetAccept sets the Accept header.
func (h *Headers) SetAccept(v string) *Headers { return h.Set(HeaderAccept, v) }

// SetContentType sets the Content-Type header.
func (h *Headers) SetContentType(v string) *Headers { return h.Set(HeaderContentType, v) }

// SetAuthorization sets the Authorization header.
func (h *Headers) SetAuthorization(v string) *Headers { return h.Set(HeaderAuthorization, v) }

// SetUserAgent sets the User-Agent header.
func (h *Headers) SetUserAgent(v string) *Headers { return h.Set(HeaderUserAgent, v) }

// String renders fixed-order name=value pairs. Producers are evaluated.
func (h *Headers) String() string {
	if h == nil {
		return "Headers{}"
	}
	var b strings.Builder
	b.WriteString("Headers{")
	for i, k := range h.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(h.eval(k))
	}
	b.WriteByte('}')
	return b.String()
}

// mergeHeaders overlays next onto base key by key. Neither input is modified.
func mergeHeaders(base, next *Headers) *Headers {
	if next.Len() == 0 {
		if base == nil {
			return nil
		}
		return base.Clone()
	}
	out := base.Clone()
	for _, k := range next.keys {
		out.SetFunc(k, next.values[k])
	}
	return out
}
