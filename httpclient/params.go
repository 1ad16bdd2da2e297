package httpclient

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Params is an ordered set of query parameters whose values are produced
// when the URL is built. Values are percent-encoded unless encoding is
// disabled with SetEncoded(false).
type Params struct {
	keys   []string
	values map[string]func() string
	raw    bool
}

// NewParams returns empty, encoded params.
func NewParams() *Params {
	return &Params{values: make(map[string]func() string)}
}

// Add stores a fixed value for key.
func (p *Params) Add(key, value string) *Params {
	return p.AddFunc(key, func() string { return value })
}

// AddValue stores v formatted with fmt.Sprint.
func (p *Params) AddValue(key string, v any) *Params {
	return p.AddFunc(key, func() string { return fmt.Sprint(v) })
}

// AddFunc stores a value producer for key, replacing any earlier value.
func (p *Params) AddFunc(key string, fn func() string) *Params {
	if p.values == nil {
		p.values = make(map[string]func() string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = fn
	return p
}

// SetEncoded toggles per-value percent-encoding. Encoding is on by default.
func (p *Params) SetEncoded(encoded bool) *Params {
	p.raw = !encoded
	return p
}

// Encoded reports whether values are percent-encoded.
func (p *Params) Encoded() bool { return !p.raw }

// Len returns the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Encode renders the query string including the leading '?', or "" when
// there are no parameters.
func (p *Params) Encode() string {
	if p.Len() == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('?')
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		var v string
		if fn := p.values[k]; fn != nil {
			v = fn()
		}
		if p.raw {
			b.WriteString(v)
		} else {
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Clone returns an independent copy. Value producers are shared. A nil
// receiver yields nil.
func (p *Params) Clone() *Params {
	if p == nil {
		return nil
	}
	out := NewParams()
	out.keys = slices.Clone(p.keys)
	maps.Copy(out.values, p.values)
	out.raw = p.raw
	return out
}

// Config wraps the params into a configuration layer.
func (p *Params) Config() *Config {
	return &Config{Params: Set(p)}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
