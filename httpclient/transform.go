package httpclient

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
)

// RequestTransformer encodes a request payload. The resolved request headers
// are passed for transformers that vary the encoding by content type.
type RequestTransformer interface {
	TransformRequest(payload any, h *Headers) ([]byte, error)
}

// ResponseTransformer decodes a successful response body into target.
type ResponseTransformer interface {
	TransformResponse(r io.Reader, target any) error
}

// ContentTyper is implemented by request transformers that know the media
// type they produce. The executor uses it when no Content-Type is configured.
type ContentTyper interface {
	ContentType() string
}

// RequestTransformerFunc adapts a function to RequestTransformer.
type RequestTransformerFunc func(payload any, h *Headers) ([]byte, error)

// TransformRequest calls f.
func (f RequestTransformerFunc) TransformRequest(payload any, h *Headers) ([]byte, error) {
	return f(payload, h)
}

// ResponseTransformerFunc adapts a function to ResponseTransformer.
type ResponseTransformerFunc func(r io.Reader, target any) error

// TransformResponse calls f.
func (f ResponseTransformerFunc) TransformResponse(r io.Reader, target any) error {
	return f(r, target)
}

// JSONTransformer encodes and decodes JSON bodies with sonic.
type JSONTransformer struct{}

// TransformRequest marshals payload as JSON.
func (JSONTransformer) TransformRequest(payload any, _ *Headers) ([]byte, error) {
	return sonic.Marshal(payload)
}

// TransformResponse unmarshals the body into target. An empty body leaves
// target untouched.
func (JSONTransformer) TransformResponse(r io.Reader, target any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return sonic.Unmarshal(data, target)
}

// ContentType returns application/json.
func (JSONTransformer) ContentType() string { return ContentTypeJSON }

// YAMLTransformer encodes and decodes YAML bodies with goccy/go-yaml.
type YAMLTransformer struct{}

// TransformRequest marshals payload as YAML.
func (YAMLTransformer) TransformRequest(payload any, _ *Headers) ([]byte, error) {
	return yaml.Marshal(payload)
}

// TransformResponse unmarshals the body into target. An empty body leaves
// target untouched.
func (YAMLTransformer) TransformResponse(r io.Reader, target any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, target)
}

// ContentType returns application/yaml.
func (YAMLTransformer) ContentType() string { return ContentTypeYAML }

// Transformers returns a layer that sets both transformers.
func Transformers(req RequestTransformer, resp ResponseTransformer) *Config {
	cfg := &Config{}
	if req != nil {
		cfg.RequestTransformer = Set(req)
	}
	if resp != nil {
		cfg.ResponseTransformer = Set(resp)
	}
	return cfg
}
