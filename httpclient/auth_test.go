package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestAuthConfig_Authenticate(t *testing.T) {
	tests := []struct {
		name  string
		auth  *AuthConfig
		check func(t *testing.T, r *http.Request)
	}{
		{
			name: "bearer",
			auth: BearerAuth("tok"),
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get(HeaderAuthorization); got != "Bearer tok" {
					t.Errorf("Authorization = %q", got)
				}
			},
		},
		{
			name: "basic",
			auth: BasicAuth("ann", "secret"),
			check: func(t *testing.T, r *http.Request) {
				u, p, ok := r.BasicAuth()
				if !ok || u != "ann" || p != "secret" {
					t.Errorf("basic auth = %q %q %v", u, p, ok)
				}
			},
		},
		{
			name: "api key header",
			auth: APIKeyAuth("k1"),
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get("X-API-Key"); got != "k1" {
					t.Errorf("X-API-Key = %q", got)
				}
			},
		},
		{
			name: "api key custom header",
			auth: APIKeyAuthHeader("k2", "X-Token"),
			check: func(t *testing.T, r *http.Request) {
				if got := r.Header.Get("X-Token"); got != "k2" {
					t.Errorf("X-Token = %q", got)
				}
			},
		},
		{
			name: "api key query",
			auth: APIKeyAuthQuery("k3", "api_key"),
			check: func(t *testing.T, r *http.Request) {
				if got := r.URL.Query().Get("api_key"); got != "k3" {
					t.Errorf("api_key = %q", got)
				}
				if got := r.URL.Query().Get("page"); got != "2" {
					t.Errorf("existing query lost: page = %q", got)
				}
			},
		},
		{
			name: "none",
			auth: &AuthConfig{Type: AuthNone},
			check: func(t *testing.T, r *http.Request) {
				if len(r.Header) != 0 {
					t.Errorf("unexpected headers %v", r.Header)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://example.com/x?page=2", nil)
			if err := tt.auth.Authenticate(req); err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			tt.check(t, req)
		})
	}
}

func TestAuthConfig_NilSafe(t *testing.T) {
	var a *AuthConfig
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	if err := a.Authenticate(req); err != nil {
		t.Errorf("nil Authenticate: %v", err)
	}
}

func TestJWTAuth(t *testing.T) {
	key := []byte("test-secret")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	j, err := NewJWTAuth(JWTConfig{
		Key:      key,
		Issuer:   "strata",
		Subject:  "svc-a",
		Audience: []string{"api"},
		TTL:      time.Minute,
		Leeway:   10 * time.Second,
		Claims:   map[string]any{"scope": "read"},
	})
	if err != nil {
		t.Fatalf("NewJWTAuth: %v", err)
	}
	j.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	if err := j.Authenticate(req); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	raw := req.Header.Get(HeaderAuthorization)
	if len(raw) < 8 || raw[:7] != "Bearer " {
		t.Fatalf("Authorization = %q", raw)
	}

	parsed, err := gojwt.Parse(raw[7:], func(tok *gojwt.Token) (any, error) { return key, nil },
		gojwt.WithValidMethods([]string{"HS256"}),
		gojwt.WithTimeFunc(func() time.Time { return now }),
		gojwt.WithIssuer("strata"),
		gojwt.WithAudience("api"),
	)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims := parsed.Claims.(gojwt.MapClaims)
	if sub, _ := claims.GetSubject(); sub != "svc-a" {
		t.Errorf("sub = %q", sub)
	}
	if claims["scope"] != "read" {
		t.Errorf("scope = %v", claims["scope"])
	}

	t.Run("reuses token until leeway", func(t *testing.T) {
		first, _ := j.Token()
		now = now.Add(45 * time.Second)
		second, _ := j.Token()
		if first != second {
			t.Error("token should be reused before the leeway window")
		}
		now = now.Add(10 * time.Second)
		third, _ := j.Token()
		if third == second {
			t.Error("token should be renewed inside the leeway window")
		}
	})
}

func TestNewJWTAuth_RequiresKey(t *testing.T) {
	if _, err := NewJWTAuth(JWTConfig{}); err == nil {
		t.Error("expected error without key")
	}
}

func TestJWTAuth_SignFailure(t *testing.T) {
	// HS256 requires a []byte key.
	j, err := NewJWTAuth(JWTConfig{Key: "not-bytes"})
	if err != nil {
		t.Fatalf("NewJWTAuth: %v", err)
	}
	if _, err := j.Token(); !IsConfig(err) {
		t.Errorf("expected config error, got %v", err)
	}
}
