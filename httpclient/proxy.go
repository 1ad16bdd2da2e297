package httpclient

import (
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// NoProxy connects directly.
func NoProxy(*url.URL) (*url.URL, error) { return nil, nil }

// ProxyURL returns a ProxyFunc that always uses proxy.
func ProxyURL(proxy *url.URL) ProxyFunc {
	return func(*url.URL) (*url.URL, error) { return proxy, nil }
}

// ParseProxy parses raw and returns a fixed ProxyFunc.
func ParseProxy(raw string) (ProxyFunc, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewConfigError("invalid proxy url: " + err.Error())
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, NewConfigError("invalid proxy url: " + raw)
	}
	return ProxyURL(u), nil
}

// ProxyFromEnvironment reads HTTP_PROXY, HTTPS_PROXY and NO_PROXY (and their
// lowercase forms) once and returns the resulting selector.
func ProxyFromEnvironment() ProxyFunc {
	return httpproxy.FromEnvironment().ProxyFunc()
}

// WithProxy wraps a proxy selector into a configuration layer.
func WithProxy(p ProxyFunc) *Config {
	return &Config{Proxy: Set(p)}
}
