package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Transport opens connections to a URL.
type Transport interface {
	Open(ctx context.Context, rawURL string, proxy ProxyFunc) (Connection, error)
}

// Connection is a single request/response exchange that is configured before
// it is sent. The request goes out on the first call that needs the response
// (StatusCode, StatusMessage, ResponseHeader, Body, ErrorBody).
type Connection interface {
	URL() string
	SetConnectTimeout(d time.Duration)
	SetReadTimeout(d time.Duration)
	SetMethod(m Method)
	Method() Method
	SetUseCaches(use bool)
	// SetOutput enables Write.
	SetOutput(out bool)
	SetHeader(name, value string)
	// Header returns the live request headers.
	Header() http.Header
	SetAuthenticator(a Authenticator)
	Write(p []byte) (int, error)

	StatusCode() (int, error)
	StatusMessage() (string, error)
	ResponseHeader() (http.Header, error)
	Body() (io.Reader, error)
	ErrorBody() (io.Reader, error)

	// Disconnect releases the connection. It is safe to call more than once.
	Disconnect() error
}

// HTTPTransport opens connections backed by net/http.
type HTTPTransport struct {
	client *http.Client
}

var (
	defaultTransportOnce sync.Once
	defaultTransport     *HTTPTransport
)

// DefaultTransport returns the shared transport without custom TLS.
func DefaultTransport() *HTTPTransport {
	defaultTransportOnce.Do(func() {
		defaultTransport, _ = NewHTTPTransport(nil)
	})
	return defaultTransport
}

// NewHTTPTransport builds a transport. Per-connection proxy and connect
// timeout are honored through the request context.
func NewHTTPTransport(tlsCfg *TLSConfig) (*HTTPTransport, error) {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if tlsCfg != nil {
		c, err := tlsCfg.Build()
		if err != nil {
			return nil, err
		}
		if c != nil {
			base.TLSClientConfig = c
		}
	}
	base.Proxy = func(req *http.Request) (*url.URL, error) {
		if opts, ok := req.Context().Value(dialOptionsKey{}).(dialOptions); ok && opts.proxy != nil {
			return opts.proxy(req.URL)
		}
		return nil, nil
	}
	base.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := net.Dialer{KeepAlive: 30 * time.Second}
		if opts, ok := ctx.Value(dialOptionsKey{}).(dialOptions); ok {
			d.Timeout = opts.connectTimeout
		}
		return d.DialContext(ctx, network, addr)
	}
	return &HTTPTransport{client: &http.Client{Transport: base}}, nil
}

// Open returns an unsent connection for rawURL.
func (t *HTTPTransport) Open(ctx context.Context, rawURL string, proxy ProxyFunc) (Connection, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, NewConfigError("invalid url: " + err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, NewConfigError("unsupported url scheme in " + strconv.Quote(rawURL))
	}
	return &httpConnection{
		ctx:    ctx,
		client: t.client,
		rawURL: rawURL,
		proxy:  proxy,
		method: MethodGet,
		header: make(http.Header),
	}, nil
}

type dialOptionsKey struct{}

type dialOptions struct {
	proxy          ProxyFunc
	connectTimeout time.Duration
}

type httpConnection struct {
	ctx    context.Context
	client *http.Client
	rawURL string
	proxy  ProxyFunc

	connectTimeout time.Duration
	readTimeout    time.Duration
	method         Method
	useCaches      bool
	output         bool
	header         http.Header
	auth           Authenticator
	payload        bytes.Buffer

	sent    bool
	sendErr error
	resp    *http.Response
	body    io.Reader
	cancel  context.CancelFunc
	timer   *time.Timer
}

func (c *httpConnection) URL() string { return c.rawURL }

func (c *httpConnection) SetConnectTimeout(d time.Duration) { c.connectTimeout = d }

func (c *httpConnection) SetReadTimeout(d time.Duration) { c.readTimeout = d }

func (c *httpConnection) SetMethod(m Method) { c.method = m }

func (c *httpConnection) Method() Method { return c.method }

func (c *httpConnection) SetUseCaches(use bool) { c.useCaches = use }

func (c *httpConnection) SetOutput(out bool) { c.output = out }

func (c *httpConnection) SetHeader(name, value string) { c.header.Set(name, value) }

func (c *httpConnection) Header() http.Header { return c.header }

func (c *httpConnection) SetAuthenticator(a Authenticator) { c.auth = a }

func (c *httpConnection) Write(p []byte) (int, error) {
	if c.sent {
		return 0, errors.New("httpclient: write after request was sent")
	}
	if !c.output {
		return 0, errors.New("httpclient: connection output is disabled")
	}
	return c.payload.Write(p)
}

func (c *httpConnection) StatusCode() (int, error) {
	if err := c.send(); err != nil {
		return 0, err
	}
	return c.resp.StatusCode, nil
}

func (c *httpConnection) StatusMessage() (string, error) {
	if err := c.send(); err != nil {
		return "", err
	}
	return strings.TrimPrefix(c.resp.Status, strconv.Itoa(c.resp.StatusCode)+" "), nil
}

func (c *httpConnection) ResponseHeader() (http.Header, error) {
	if err := c.send(); err != nil {
		return nil, err
	}
	return c.resp.Header, nil
}

func (c *httpConnection) Body() (io.Reader, error) {
	if err := c.send(); err != nil {
		return nil, err
	}
	return c.body, nil
}

func (c *httpConnection) ErrorBody() (io.Reader, error) {
	return c.Body()
}

func (c *httpConnection) Disconnect() error {
	if c.timer != nil {
		c.timer.Stop()
	}
	var err error
	if c.resp != nil {
		_, _ = io.Copy(io.Discard, c.resp.Body)
		err = c.resp.Body.Close()
		c.resp = nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	if !c.sent {
		c.sent = true
		c.sendErr = errors.New("httpclient: connection released")
	}
	return err
}

func (c *httpConnection) send() error {
	if c.sent {
		return c.sendErr
	}
	c.sent = true
	c.sendErr = c.roundTrip()
	return c.sendErr
}

func (c *httpConnection) roundTrip() error {
	ctx := context.WithValue(c.ctx, dialOptionsKey{}, dialOptions{
		proxy:          c.proxy,
		connectTimeout: c.connectTimeout,
	})
	ctx, c.cancel = context.WithCancel(ctx)

	var body io.Reader
	if c.output {
		body = bytes.NewReader(c.payload.Bytes())
	}
	req, err := http.NewRequestWithContext(ctx, c.method.String(), c.rawURL, body)
	if err != nil {
		c.cancel()
		return NewConfigError("build request: " + err.Error())
	}
	req.Header = c.header.Clone()
	if !c.useCaches && req.Header.Get(HeaderCacheControl) == "" {
		req.Header.Set(HeaderCacheControl, "no-cache")
	}
	if c.auth != nil {
		if err := c.auth.Authenticate(req); err != nil {
			c.cancel()
			return err
		}
	}

	// The read timeout first bounds the wait for response headers, then
	// restarts on every body read.
	if c.readTimeout > 0 {
		c.timer = time.AfterFunc(c.connectTimeout+c.readTimeout, c.cancel)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if c.timer != nil {
			c.timer.Stop()
		}
		c.cancel()
		return NewIOError(c.method.String()+" "+c.rawURL, err)
	}
	c.resp = resp
	c.body = resp.Body
	if c.timer != nil {
		c.timer.Reset(c.readTimeout)
		c.body = &idleTimeoutReader{r: resp.Body, timer: c.timer, d: c.readTimeout}
	}
	return nil
}

type idleTimeoutReader struct {
	r     io.Reader
	timer *time.Timer
	d     time.Duration
}

func (r *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.timer.Reset(r.d)
	}
	return n, err
}
