package httpclient

import (
	"fmt"
	"net/http"
	"strings"
)

// Method is an HTTP request method supported by the pipeline.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodPatch  Method = http.MethodPatch
	MethodHead   Method = http.MethodHead
)

// ParseMethod converts a case-insensitive method name.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("httpclient: unsupported method %q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodHead:
		return true
	}
	return false
}

// IsOutput reports whether a request body is written for m.
// Only POST and PUT carry a body through the request transformer.
func (m Method) IsOutput() bool {
	return m == MethodPost || m == MethodPut
}

// String returns the method name.
func (m Method) String() string { return string(m) }

// Config wraps the method into a configuration layer.
func (m Method) Config() *Config {
	return &Config{Method: Set(m)}
}
