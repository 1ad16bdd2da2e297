package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestServiceConfig_ApplyDefaults(t *testing.T) {
	t.Run("development by default", func(t *testing.T) {
		cfg := ServiceConfig{Name: "users-api", Version: "1.2.0"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" || !cfg.Debug {
			t.Errorf("expected development with debug, got %q debug=%v", cfg.Environment, cfg.Debug)
		}
		if cfg.Logging.ServiceName != "users-api" {
			t.Errorf("logging service = %q", cfg.Logging.ServiceName)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("logging defaults not applied: %+v", cfg.Logging)
		}
		if cfg.Tracing.ServiceName != "users-api" || cfg.Tracing.ServiceVersion != "1.2.0" {
			t.Errorf("tracing identity = %q/%q", cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion)
		}
		if cfg.Metrics.Environment != "development" {
			t.Errorf("metrics environment = %q", cfg.Metrics.Environment)
		}
	})

	t.Run("production keeps debug off", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})

	t.Run("explicit telemetry identity is kept", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.Tracing.ServiceName = "svc-tracing"
		cfg.ApplyDefaults()
		if cfg.Tracing.ServiceName != "svc-tracing" {
			t.Errorf("tracing service overwritten: %q", cfg.Tracing.ServiceName)
		}
	})
}

func TestServiceConfig_Validate(t *testing.T) {
	valid := func() ServiceConfig {
		cfg := ServiceConfig{Name: "svc", Environment: "staging"}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*ServiceConfig)
		errMsg string
	}{
		{"valid", func(*ServiceConfig) {}, ""},
		{"missing name", func(c *ServiceConfig) { c.Name = "" }, "config.name is required"},
		{"bad environment", func(c *ServiceConfig) { c.Environment = "qa" }, "config.environment must be one of"},
		{"bad logging", func(c *ServiceConfig) { c.Logging.Level = "loud" }, "config.logging"},
		{"bad sample rate", func(c *ServiceConfig) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Fatalf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

type appConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Upstream      struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"upstream"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: users-api
environment: staging
version: "1.0.0"
upstream:
  base_url: https://api.example.com
  timeout: 2s
`)

	var cfg appConfig
	if err := LoadConfig("users-api", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "users-api" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.Upstream.BaseURL != "https://api.example.com" || cfg.Upstream.Timeout != 2*time.Second {
		t.Errorf("unexpected upstream: %+v", cfg.Upstream)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: users-api\nupstream:\n  base_url: https://file.example.com\n")
	t.Setenv("UPSTREAM_BASE_URL", "https://env.example.com")

	var cfg appConfig
	if err := LoadConfig("users-api", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Upstream.BaseURL != "https://env.example.com" {
		t.Errorf("base_url = %q", cfg.Upstream.BaseURL)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: users-api\n")
	envPath := writeFile(t, dir, ".env", "STRATA_TEST_ENV_FILE_MARKER=loaded\n")
	t.Cleanup(func() { os.Unsetenv("STRATA_TEST_ENV_FILE_MARKER") })

	var cfg struct {
		Strata struct {
			Test struct {
				Env struct {
					File struct {
						Marker string `mapstructure:"marker"`
					} `mapstructure:"file"`
				} `mapstructure:"env"`
			} `mapstructure:"test"`
		} `mapstructure:"strata"`
	}
	if err := LoadConfig("users-api", &cfg, WithConfigFile(path), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got := cfg.Strata.Test.Env.File.Marker; got != "loaded" {
		t.Errorf("marker = %q", got)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	var cfg appConfig
	err := LoadConfig("nonexistent-service", &cfg,
		WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults and validation", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yml", "name: users-api\nlogging:\n  format: json\n")
		cfg, err := Load[appConfig]("users-api", WithConfigFile(path), WithEnvFile("/nonexistent/.env"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Environment != "development" || cfg.Logging.Format != "json" || cfg.Logging.ServiceName != "users-api" {
			t.Errorf("unexpected config: %+v", cfg.ServiceConfig)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yml", "environment: production\n")
		_, err := Load[appConfig]("users-api", WithConfigFile(path), WithEnvFile("/nonexistent/.env"))
		if err == nil || !strings.Contains(err.Error(), "config.name is required") {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }
func (m *mockFS) Getwd() (string, error)  { return "/mock", nil }

func TestResolver_ResolveFiles(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		opts       LoaderConfig
		wantConfig string
		wantEnv    string
	}{
		{
			name:       "service directory",
			files:      []string{"./cmd/users-api/config.yml", "./config.yml"},
			wantConfig: "./cmd/users-api/config.yml",
		},
		{
			name:       "short name",
			files:      []string{"../cmd/api/config.yml"},
			wantConfig: "../cmd/api/config.yml",
		},
		{
			name:       "root fallback",
			files:      []string{"./config.yml", "./.env"},
			wantConfig: "./config.yml",
			wantEnv:    "./.env",
		},
		{
			name:    "service env file wins",
			files:   []string{"./.env", "../config/.env.users-api"},
			wantEnv: "../config/.env.users-api",
		},
		{
			name:       "explicit paths",
			files:      []string{"./config.yml"},
			opts:       LoaderConfig{ConfigFile: "/etc/users.yml", EnvFile: "/etc/users.env"},
			wantConfig: "/etc/users.yml",
			wantEnv:    "/etc/users.env",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}}
			for _, f := range tc.files {
				fs.files[f] = true
			}
			got := (&Resolver{FileSystem: fs}).ResolveFiles("users-api", tc.opts)
			if got.ConfigFile != tc.wantConfig {
				t.Errorf("config file = %q, want %q", got.ConfigFile, tc.wantConfig)
			}
			if got.EnvFile != tc.wantEnv {
				t.Errorf("env file = %q, want %q", got.EnvFile, tc.wantEnv)
			}
		})
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("AUTH_JWT_SECRET")
	want := []string{"auth_jwt_secret", "auth.jwt.secret", "auth.jwt_secret"}
	for _, w := range want {
		if !slices.Contains(got, w) {
			t.Errorf("missing variant %q in %v", w, got)
		}
	}
	if len(got) != 3 {
		t.Errorf("expected 3 unique variants, got %v", got)
	}

	if got := envKeyVariants("HOME"); len(got) != 1 || got[0] != "home" {
		t.Errorf("single part key: %v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	for _, opt := range []LoaderOption{
		WithFileSystem(fs),
		WithConfigFile("/path/to/config.yml"),
		WithEnvFile("/path/to/.env"),
	} {
		opt(&lc)
	}
	if lc.FileSystem != fs || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected loader config: %+v", lc)
	}
}
