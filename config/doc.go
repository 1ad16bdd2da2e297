// Package config loads service configuration from config.yml, .env files
// and environment variables.
//
// Files are found in the usual service locations (./cmd/<name>/config.yml,
// ./config/config.yml, ./config.yml) unless given explicitly. Environment
// variables override file values: HTTPCLIENT_BASE_URL sets
// httpclient.base_url.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HTTPClient httpclient.Settings `yaml:"httpclient" mapstructure:"httpclient"`
//	}
//
//	cfg, err := config.Load[AppConfig]("users-api")
package config
