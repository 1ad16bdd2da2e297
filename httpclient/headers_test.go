package httpclient

import (
	"reflect"
	"testing"
)

func TestHeaders(t *testing.T) {
	h := NewHeaders().Set("content-type", "text/plain").Set("X-Trace", "1")

	if !h.Has("Content-Type") || h.Get("CONTENT-TYPE") != "text/plain" {
		t.Errorf("lookup should be case-insensitive: %v", h)
	}
	if want := []string{"Content-Type", "X-Trace"}; !reflect.DeepEqual(h.Keys(), want) {
		t.Errorf("Keys = %v, want %v", h.Keys(), want)
	}

	h.Set("x-trace", "2")
	if h.Len() != 2 || h.Get("X-Trace") != "2" {
		t.Errorf("replacing a key should keep one entry: %v", h)
	}

	h.Del("content-type")
	if h.Has("Content-Type") || h.Len() != 1 {
		t.Errorf("Del failed: %v", h)
	}
	h.Del("missing")
	if h.Len() != 1 {
		t.Error("deleting a missing key must be a no-op")
	}
}

func TestHeaders_LazyValues(t *testing.T) {
	n := 0
	h := NewHeaders().SetFunc("X-Seq", func() string {
		n++
		return string(rune('0' + n))
	})
	if n != 0 {
		t.Fatal("producer ran before resolve")
	}
	if got := h.Resolve().Get("X-Seq"); got != "1" {
		t.Errorf("first resolve = %q", got)
	}
	if got := h.Resolve().Get("X-Seq"); got != "2" {
		t.Errorf("second resolve = %q", got)
	}
}

func TestHeaders_CloneIndependent(t *testing.T) {
	h := NewHeaders().Set("A", "1")
	c := h.Clone()
	c.Set("B", "2").Del("A")
	if !h.Has("A") || h.Has("B") {
		t.Errorf("clone mutated original: %v", h)
	}
}

func TestHeaders_Nil(t *testing.T) {
	var h *Headers
	if h.Has("x") || h.Get("x") != "" || h.Len() != 0 || h.Keys() != nil {
		t.Error("nil headers should behave as empty")
	}
	if len(h.Resolve()) != 0 {
		t.Error("nil Resolve should be empty")
	}
	if h.String() != "Headers{}" {
		t.Errorf("String = %q", h.String())
	}
}

func TestHeaders_NilProducer(t *testing.T) {
	h := NewHeaders().SetFunc("X-Token", nil).Set("Accept", "text/plain")

	if got := h.Get("X-Token"); got != "" {
		t.Errorf("Get = %q", got)
	}
	resolved := h.Resolve()
	if v, ok := resolved["X-Token"]; !ok || len(v) != 1 || v[0] != "" {
		t.Errorf("Resolve[X-Token] = %v, %v", v, ok)
	}
	if resolved.Get("Accept") != "text/plain" {
		t.Errorf("Resolve = %v", resolved)
	}
	if got := h.String(); got != "Headers{X-Token=, Accept=text/plain}" {
		t.Errorf("String = %q", got)
	}
	if got := NewParams().AddFunc("k", nil).Encode(); got != "?k=" {
		t.Errorf("params with nil producer = %q", got)
	}
}

func TestHeadersFrom(t *testing.T) {
	h := HeadersFrom(map[string]string{"b": "2", "a": "1"})
	if want := []string{"A", "B"}; !reflect.DeepEqual(h.Keys(), want) {
		t.Errorf("Keys = %v, want %v", h.Keys(), want)
	}
}

func TestParams_Encode(t *testing.T) {
	tests := []struct {
		name   string
		params *Params
		want   string
	}{
		{"empty", NewParams(), ""},
		{"nil", nil, ""},
		{"single", NewParams().Add("q", "go"), "?q=go"},
		{"order kept", NewParams().Add("b", "2").Add("a", "1"), "?b=2&a=1"},
		{"encoded", NewParams().Add("q", "a b&c"), "?q=a+b%26c"},
		{"raw", NewParams().Add("q", "a b&c").SetEncoded(false), "?q=a b&c"},
		{"value", NewParams().AddValue("n", 42), "?n=42"},
		{"replace", NewParams().Add("k", "1").Add("k", "2"), "?k=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParams_LazyValues(t *testing.T) {
	v := "first"
	p := NewParams().AddFunc("v", func() string { return v })
	v = "second"
	if got := p.Encode(); got != "?v=second" {
		t.Errorf("Encode() = %q, producer should run at build time", got)
	}
}

func TestMethod(t *testing.T) {
	for _, in := range []string{"get", " Post ", "PUT", "delete", "patch", "HEAD"} {
		if _, err := ParseMethod(in); err != nil {
			t.Errorf("ParseMethod(%q): %v", in, err)
		}
	}
	if _, err := ParseMethod("OPTIONS"); err == nil {
		t.Error("OPTIONS should be rejected")
	}

	output := map[Method]bool{
		MethodGet: false, MethodPost: true, MethodPut: true,
		MethodDelete: false, MethodPatch: false, MethodHead: false,
	}
	for m, want := range output {
		if got := m.IsOutput(); got != want {
			t.Errorf("%s.IsOutput() = %v, want %v", m, got, want)
		}
	}
}
