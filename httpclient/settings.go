package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/strata/config"
	"github.com/kbukum/strata/validation"
	"github.com/kbukum/strata/workerpool"
)

// Settings is the file/env representation of a client layer. Zero values
// leave the corresponding field unset so DefaultConfig applies.
type Settings struct {
	Name           string            `yaml:"name" mapstructure:"name"`
	BaseURL        string            `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	Method         string            `yaml:"method" mapstructure:"method"`
	ConnectTimeout time.Duration     `yaml:"connect_timeout" mapstructure:"connect_timeout" validate:"gte=0"`
	ReadTimeout    time.Duration     `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	UseCaches      *bool             `yaml:"use_caches" mapstructure:"use_caches"`
	Headers        map[string]string `yaml:"headers" mapstructure:"headers"`
	Params         map[string]string `yaml:"params" mapstructure:"params"`
	ProxyURL       string            `yaml:"proxy_url" mapstructure:"proxy_url" validate:"omitempty,url"`
	ProxyFromEnv   bool              `yaml:"proxy_from_env" mapstructure:"proxy_from_env"`
	IgnoreStatus   []int             `yaml:"ignore_status" mapstructure:"ignore_status" validate:"dive,gte=300,lte=599"`
	RequestID      bool              `yaml:"request_id" mapstructure:"request_id"`
	// Format selects the body transformers: "json" (default) or "yaml".
	Format string            `yaml:"format" mapstructure:"format"`
	TLS    *TLSConfig        `yaml:"tls" mapstructure:"tls"`
	Pool   workerpool.Config `yaml:"pool" mapstructure:"pool"`
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	v := validation.New().Merge("httpclient", validation.Struct(s))
	if s.Method != "" {
		_, err := ParseMethod(s.Method)
		v.Custom(err == nil, "method", "must be one of GET, POST, PUT, DELETE, PATCH, HEAD")
	}
	v.OneOf("format", s.Format, []string{"json", "yaml"})
	v.Custom(s.ProxyURL == "" || !s.ProxyFromEnv, "proxy_url", "cannot be combined with proxy_from_env")
	v.Merge("tls", s.TLS.Validate())
	return v.Err()
}

// Layer converts the settings into a configuration layer.
func (s *Settings) Layer() (*Config, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if s.BaseURL != "" {
		cfg.BaseURL = Set(s.BaseURL)
	}
	if s.Method != "" {
		m, _ := ParseMethod(s.Method)
		cfg.Method = Set(m)
	}
	if s.ConnectTimeout > 0 {
		cfg.ConnectTimeout = Set(s.ConnectTimeout)
	}
	if s.ReadTimeout > 0 {
		cfg.ReadTimeout = Set(s.ReadTimeout)
	}
	if s.UseCaches != nil {
		cfg.UseCaches = Set(*s.UseCaches)
	}
	if len(s.Headers) > 0 {
		cfg.Headers = HeadersFrom(s.Headers)
	}
	if len(s.Params) > 0 {
		p := NewParams()
		for _, k := range sortedKeys(s.Params) {
			p.Add(k, s.Params[k])
		}
		cfg.Params = Set(p)
	}
	switch {
	case s.ProxyURL != "":
		p, err := ParseProxy(s.ProxyURL)
		if err != nil {
			return nil, err
		}
		cfg.Proxy = Set(p)
	case s.ProxyFromEnv:
		cfg.Proxy = Set(ProxyFromEnvironment())
	}
	if len(s.IgnoreStatus) > 0 {
		cfg.IgnoreStatus = Set(IgnoreCodes(s.IgnoreStatus...))
	}
	if s.Format == "yaml" {
		cfg.RequestTransformer = Set[RequestTransformer](YAMLTransformer{})
		cfg.ResponseTransformer = Set[ResponseTransformer](YAMLTransformer{})
	}
	if s.RequestID {
		cfg.RequestInterceptors = append(cfg.RequestInterceptors, RequestIDInterceptor())
	}
	return cfg, nil
}

// FromSettings builds a client from settings. A TLS section gets its own
// transport unless WithTransport is passed.
func FromSettings(s Settings, opts ...Option) (*Client, error) {
	layer, err := s.Layer()
	if err != nil {
		return nil, err
	}
	if s.TLS.IsEnabled() {
		t, err := NewHTTPTransport(s.TLS)
		if err != nil {
			return nil, err
		}
		opts = append([]Option{WithTransport(t)}, opts...)
	}
	return New(layer, opts...), nil
}

// LoadSettings reads the "httpclient" section of the service configuration
// (config.yml, .env and environment variables).
func LoadSettings(serviceName string, opts ...config.LoaderOption) (Settings, error) {
	var file struct {
		HTTPClient Settings `mapstructure:"httpclient"`
	}
	if err := config.LoadConfig(serviceName, &file, opts...); err != nil {
		return Settings{}, fmt.Errorf("httpclient: load settings: %w", err)
	}
	return file.HTTPClient, nil
}
