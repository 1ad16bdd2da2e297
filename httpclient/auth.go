package httpclient

import (
	"errors"
	"net/http"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Authenticator adds credentials to an outgoing request. It runs when the
// request is sent, after headers and before the connection hook's changes
// take effect on the wire.
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// AuthFunc adapts a function to Authenticator.
type AuthFunc func(req *http.Request) error

// Authenticate calls f.
func (f AuthFunc) Authenticate(req *http.Request) error { return f(req) }

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey uses API key authentication (header or query parameter).
	AuthAPIKey
)

// AuthConfig holds static credentials.
type AuthConfig struct {
	Type     AuthType
	Token    string
	Username string
	Password string
	// Key is the API key value.
	Key string
	// In places the API key: "header" (default) or "query".
	In string
	// Name is the header or query parameter name. Defaults to "X-API-Key".
	Name string
}

// BearerAuth creates a bearer token authenticator.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth authenticator.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key authenticator sent via the X-API-Key header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: "X-API-Key"}
}

// APIKeyAuthHeader creates an API key authenticator with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: headerName}
}

// APIKeyAuthQuery creates an API key authenticator sent as a query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// Authenticate applies the credentials to req.
func (a *AuthConfig) Authenticate(req *http.Request) error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set(HeaderAuthorization, "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		if a.In == "query" {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
		} else {
			req.Header.Set(name, a.Key)
		}
	}
	return nil
}

// WithAuth wraps an authenticator into a configuration layer.
func WithAuth(a Authenticator) *Config {
	return &Config{Authenticator: Set(a)}
}

// JWTConfig configures JWTAuth.
type JWTConfig struct {
	// Method is the signing method. Defaults to HS256.
	Method gojwt.SigningMethod
	// Key is the signing key: []byte for HMAC, a private key otherwise.
	Key      any
	Issuer   string
	Subject  string
	Audience []string
	// TTL is the token lifetime. Defaults to 5 minutes.
	TTL time.Duration
	// Leeway renews the token this long before it expires. Defaults to 30 seconds.
	Leeway time.Duration
	// Claims are extra claims added to every token.
	Claims map[string]any
}

// JWTAuth signs short-lived bearer tokens and reuses each until it is about
// to expire. It is safe for concurrent use.
type JWTAuth struct {
	cfg JWTConfig
	now func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewJWTAuth creates a JWT bearer authenticator.
func NewJWTAuth(cfg JWTConfig) (*JWTAuth, error) {
	if cfg.Method == nil {
		cfg.Method = gojwt.SigningMethodHS256
	}
	if cfg.Key == nil {
		return nil, errors.New("httpclient: jwt signing key is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Leeway <= 0 {
		cfg.Leeway = 30 * time.Second
	}
	return &JWTAuth{cfg: cfg, now: time.Now}, nil
}

// Authenticate sets the Authorization header to a valid bearer token.
func (j *JWTAuth) Authenticate(req *http.Request) error {
	tok, err := j.Token()
	if err != nil {
		return err
	}
	req.Header.Set(HeaderAuthorization, "Bearer "+tok)
	return nil
}

// Token returns the cached token, minting a new one when needed.
func (j *JWTAuth) Token() (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	if j.token != "" && now.Add(j.cfg.Leeway).Before(j.expires) {
		return j.token, nil
	}

	exp := now.Add(j.cfg.TTL)
	claims := gojwt.MapClaims{
		"iat": gojwt.NewNumericDate(now),
		"exp": gojwt.NewNumericDate(exp),
	}
	for k, v := range j.cfg.Claims {
		claims[k] = v
	}
	if j.cfg.Issuer != "" {
		claims["iss"] = j.cfg.Issuer
	}
	if j.cfg.Subject != "" {
		claims["sub"] = j.cfg.Subject
	}
	if len(j.cfg.Audience) > 0 {
		claims["aud"] = gojwt.ClaimStrings(j.cfg.Audience)
	}

	signed, err := gojwt.NewWithClaims(j.cfg.Method, claims).SignedString(j.cfg.Key)
	if err != nil {
		return "", NewConfigError("sign jwt: " + err.Error())
	}
	j.token, j.expires = signed, exp
	return signed, nil
}
