// Package httpclienttest provides an in-memory Transport for testing code
// built on httpclient. Every opened connection is recorded so tests can
// assert what the pipeline configured, wrote and released.
package httpclienttest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/strata/httpclient"
)

// Reply is a canned response.
type Reply struct {
	StatusCode int
	// Status defaults to http.StatusText(StatusCode).
	Status string
	Header http.Header
	Body   string
	// Err fails the send instead of answering.
	Err error
}

// Responder produces the reply for a connection at send time.
type Responder func(c *Conn) Reply

// Respond returns a Responder that always answers status with body.
func Respond(status int, body string) Responder {
	return func(*Conn) Reply { return Reply{StatusCode: status, Body: body} }
}

// RespondJSON answers status with a JSON body and content type.
func RespondJSON(status int, body string) Responder {
	return func(*Conn) Reply {
		return Reply{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{httpclient.ContentTypeJSON}},
			Body:       body,
		}
	}
}

// Transport is a recording httpclient.Transport.
type Transport struct {
	responder Responder

	mu      sync.Mutex
	conns   []*Conn
	openErr error
}

var _ httpclient.Transport = (*Transport)(nil)

// NewTransport creates a transport answering with r.
func NewTransport(r Responder) *Transport {
	return &Transport{responder: r}
}

// FailOpen makes every subsequent Open fail with err.
func (t *Transport) FailOpen(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.openErr = err
}

// Open records and returns a new connection.
func (t *Transport) Open(_ context.Context, rawURL string, proxy httpclient.ProxyFunc) (httpclient.Connection, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.openErr != nil {
		return nil, t.openErr
	}
	c := &Conn{
		responder: t.responder,
		url:       rawURL,
		proxy:     proxy,
		method:    httpclient.MethodGet,
		header:    make(http.Header),
	}
	t.conns = append(t.conns, c)
	return c, nil
}

// Conns returns every connection opened so far.
func (t *Transport) Conns() []*Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Conn, len(t.conns))
	copy(out, t.conns)
	return out
}

// Last returns the most recent connection, or nil.
func (t *Transport) Last() *Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.conns) == 0 {
		return nil
	}
	return t.conns[len(t.conns)-1]
}

// Conn is a recorded connection.
type Conn struct {
	responder Responder

	mu             sync.Mutex
	url            string
	proxy          httpclient.ProxyFunc
	connectTimeout time.Duration
	readTimeout    time.Duration
	method         httpclient.Method
	useCaches      bool
	output         bool
	header         http.Header
	auth           httpclient.Authenticator
	written        bytes.Buffer

	sent         bool
	sentHeader   http.Header
	reply        Reply
	disconnected bool
}

var _ httpclient.Connection = (*Conn)(nil)

func (c *Conn) URL() string { return c.url }

func (c *Conn) SetConnectTimeout(d time.Duration) { c.connectTimeout = d }

func (c *Conn) SetReadTimeout(d time.Duration) { c.readTimeout = d }

func (c *Conn) SetMethod(m httpclient.Method) { c.method = m }

func (c *Conn) Method() httpclient.Method { return c.method }

func (c *Conn) SetUseCaches(use bool) { c.useCaches = use }

func (c *Conn) SetOutput(out bool) { c.output = out }

func (c *Conn) SetHeader(name, value string) { c.header.Set(name, value) }

func (c *Conn) Header() http.Header { return c.header }

func (c *Conn) SetAuthenticator(a httpclient.Authenticator) { c.auth = a }

func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sent {
		return 0, errors.New("httpclienttest: write after send")
	}
	if !c.output {
		return 0, errors.New("httpclienttest: output disabled")
	}
	return c.written.Write(p)
}

func (c *Conn) StatusCode() (int, error) {
	r, err := c.send()
	return r.StatusCode, err
}

func (c *Conn) StatusMessage() (string, error) {
	r, err := c.send()
	return r.Status, err
}

func (c *Conn) ResponseHeader() (http.Header, error) {
	r, err := c.send()
	return r.Header, err
}

func (c *Conn) Body() (io.Reader, error) {
	r, err := c.send()
	if err != nil {
		return nil, err
	}
	return strings.NewReader(r.Body), nil
}

func (c *Conn) ErrorBody() (io.Reader, error) { return c.Body() }

func (c *Conn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
	return nil
}

func (c *Conn) send() (Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sent {
		return c.reply, c.reply.Err
	}
	c.sent = true

	req, _ := http.NewRequest(c.method.String(), c.url, nil)
	req.Header = c.header.Clone()
	if c.auth != nil {
		if err := c.auth.Authenticate(req); err != nil {
			c.reply = Reply{Err: err}
			return c.reply, err
		}
	}
	c.sentHeader = req.Header

	if c.responder == nil {
		c.reply = Reply{StatusCode: http.StatusOK}
	} else {
		c.mu.Unlock()
		c.reply = c.responder(c)
		c.mu.Lock()
	}
	if c.reply.Status == "" && c.reply.Err == nil {
		c.reply.Status = http.StatusText(c.reply.StatusCode)
	}
	if c.reply.Header == nil {
		c.reply.Header = make(http.Header)
	}
	return c.reply, c.reply.Err
}

// Sent reports whether the request went out.
func (c *Conn) Sent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}

// Disconnected reports whether the pipeline released the connection.
func (c *Conn) Disconnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnected
}

// Written returns the request body bytes.
func (c *Conn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bytes.Clone(c.written.Bytes())
}

// SentHeader returns the request headers after authentication, or nil
// before send.
func (c *Conn) SentHeader() http.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sentHeader
}

// Timeouts returns the configured connect and read timeouts.
func (c *Conn) Timeouts() (connect, read time.Duration) { return c.connectTimeout, c.readTimeout }

// UsesCaches returns the caching flag.
func (c *Conn) UsesCaches() bool { return c.useCaches }

// Output reports whether body output was enabled.
func (c *Conn) Output() bool { return c.output }

// Proxy returns the proxy selector passed to Open.
func (c *Conn) Proxy() httpclient.ProxyFunc { return c.proxy }
