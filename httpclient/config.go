package httpclient

import (
	"net/url"
	"sync"
	"time"

	"github.com/kbukum/strata/version"
)

const (
	defaultConnectTimeout = 7500 * time.Millisecond
	defaultReadTimeout    = 7500 * time.Millisecond
)

// StatusPredicate reports whether a status code above 299 should be treated
// as a success rather than an error.
type StatusPredicate func(status int) bool

// ErrorHandler receives HTTP status errors. A non-nil return is propagated to
// the caller of Exchange; nil keeps the failure local to the handler.
type ErrorHandler func(err *StatusError) error

// ConnectionHook customizes the raw connection. It runs after every other
// configuration step and may override anything set before it.
type ConnectionHook func(conn Connection)

// ProxyFunc returns the proxy URL to use for a target URL, or nil for a
// direct connection.
type ProxyFunc func(target *url.URL) (*url.URL, error)

// Config is one layer of request configuration. Unset fields never overwrite
// values from earlier layers; see Merge.
//
// A Config handed to a Client or used as an override must not be modified
// afterwards.
type Config struct {
	BaseURL        Opt[string]
	Params         Opt[*Params]
	ConnectTimeout Opt[time.Duration]
	ReadTimeout    Opt[time.Duration]
	Method         Opt[Method]
	UseCaches      Opt[bool]
	Proxy          Opt[ProxyFunc]
	Authenticator  Opt[Authenticator]

	RequestTransformer  Opt[RequestTransformer]
	ResponseTransformer Opt[ResponseTransformer]

	IgnoreStatus   Opt[StatusPredicate]
	ErrorHandler   Opt[ErrorHandler]
	ConnectionHook Opt[ConnectionHook]

	// Headers merge key by key across layers.
	Headers *Headers

	// Interceptor lists concatenate across layers.
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
}

// Merge layers overrides onto base and returns a new Config. For scalar
// fields the last layer that sets a value wins; headers are overlaid per key;
// interceptor lists are concatenated in layer order. Nil layers are skipped
// and no input is modified.
func Merge(base *Config, overrides ...*Config) *Config {
	out := base.Clone()
	for _, o := range overrides {
		if o == nil {
			continue
		}
		out.BaseURL = out.BaseURL.overlay(o.BaseURL)
		if o.Params.IsSet() {
			out.Params = Set(o.Params.Value().Clone())
		}
		out.ConnectTimeout = out.ConnectTimeout.overlay(o.ConnectTimeout)
		out.ReadTimeout = out.ReadTimeout.overlay(o.ReadTimeout)
		out.Method = out.Method.overlay(o.Method)
		out.UseCaches = out.UseCaches.overlay(o.UseCaches)
		out.Proxy = out.Proxy.overlay(o.Proxy)
		out.Authenticator = out.Authenticator.overlay(o.Authenticator)
		out.RequestTransformer = out.RequestTransformer.overlay(o.RequestTransformer)
		out.ResponseTransformer = out.ResponseTransformer.overlay(o.ResponseTransformer)
		out.IgnoreStatus = out.IgnoreStatus.overlay(o.IgnoreStatus)
		out.ErrorHandler = out.ErrorHandler.overlay(o.ErrorHandler)
		out.ConnectionHook = out.ConnectionHook.overlay(o.ConnectionHook)
		out.Headers = mergeHeaders(out.Headers, o.Headers)
		out.RequestInterceptors = append(out.RequestInterceptors, o.RequestInterceptors...)
		out.ResponseInterceptors = append(out.ResponseInterceptors, o.ResponseInterceptors...)
	}
	return out
}

// Merge is shorthand for Merge(c, overrides...).
func (c *Config) Merge(overrides ...*Config) *Config {
	return Merge(c, overrides...)
}

// Clone returns a copy that shares no mutable state with c. A nil receiver
// yields an empty Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}
	out := *c
	if c.Headers != nil {
		out.Headers = c.Headers.Clone()
	}
	if c.Params.IsSet() {
		out.Params = Set(c.Params.Value().Clone())
	}
	out.RequestInterceptors = append([]RequestInterceptor(nil), c.RequestInterceptors...)
	out.ResponseInterceptors = append([]ResponseInterceptor(nil), c.ResponseInterceptors...)
	return &out
}

// AddRequestInterceptor returns a copy of c with ic appended.
func (c *Config) AddRequestInterceptor(ic RequestInterceptor) *Config {
	out := c.Clone()
	out.RequestInterceptors = append(out.RequestInterceptors, ic)
	return out
}

// AddResponseInterceptor returns a copy of c with ic appended.
func (c *Config) AddResponseInterceptor(ic ResponseInterceptor) *Config {
	out := c.Clone()
	out.ResponseInterceptors = append(out.ResponseInterceptors, ic)
	return out
}

// effectiveMethod returns the configured method, defaulting to GET.
func (c *Config) effectiveMethod() Method {
	return c.Method.Or(MethodGet)
}

var (
	defaultConfigOnce sync.Once
	defaultConfig     *Config
)

// DefaultConfig returns the process-wide base layer. It is built once and
// never modified; callers receive a copy.
func DefaultConfig() *Config {
	defaultConfigOnce.Do(func() {
		defaultConfig = &Config{
			BaseURL:             Set(""),
			ConnectTimeout:      Set(defaultConnectTimeout),
			ReadTimeout:         Set(defaultReadTimeout),
			Method:              Set(MethodGet),
			UseCaches:           Set(false),
			RequestTransformer:  Set[RequestTransformer](JSONTransformer{}),
			ResponseTransformer: Set[ResponseTransformer](JSONTransformer{}),
			IgnoreStatus:        Set[StatusPredicate](IgnoreNone),
			ErrorHandler:        Set(LogErrorHandler(nil)),
			ConnectionHook:      Set[ConnectionHook](func(Connection) {}),
			Headers:             NewHeaders().SetUserAgent(version.UserAgent()),
		}
	})
	return defaultConfig.Clone()
}
