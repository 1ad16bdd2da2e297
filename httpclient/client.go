package httpclient

import (
	"context"
	"io"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/strata/logger"
	"github.com/kbukum/strata/observability"
)

// Client executes HTTP exchanges with a layered configuration. A Client is
// immutable and safe for concurrent use; derive variants with With.
type Client struct {
	config    *Config
	transport Transport
	log       *logger.Logger
	observer  Observer
	tracing   bool
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the net/http transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithLogger sets the logger used for exchange logs.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithObserver registers exchange observers.
func WithObserver(obs ...Observer) Option {
	return func(c *Client) {
		switch len(obs) {
		case 0:
		case 1:
			c.observer = obs[0]
		default:
			c.observer = Observers(obs)
		}
	}
}

// WithTracing enables OpenTelemetry client spans and trace header propagation.
func WithTracing(enabled bool) Option {
	return func(c *Client) { c.tracing = enabled }
}

// New creates a client whose layer cfg sits on top of DefaultConfig. A nil
// cfg is allowed.
func New(cfg *Config, opts ...Option) *Client {
	c := &Client{
		config:    cfg.Clone(),
		transport: DefaultTransport(),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.WithComponent("httpclient")
	}
	return c
}

// With returns a child client whose layer is this client's layer merged with
// overrides. The receiver is unchanged.
func (c *Client) With(overrides ...*Config) *Client {
	child := *c
	child.config = Merge(c.config, overrides...)
	return &child
}

// Config returns a copy of the client's effective configuration without any
// per-call layers.
func (c *Client) Config() *Config {
	return Merge(DefaultConfig(), c.config)
}

// Call describes one exchange.
type Call struct {
	// Method is layered between the client config and Overrides. Empty
	// leaves the configured method in place.
	Method Method
	// Path is appended to the base URL verbatim.
	Path string
	// Body is encoded by the request transformer for POST and PUT.
	Body any
	// Target receives the decoded body. Nil delivers the body as RawBody.
	Target any
	// Overrides are applied last, in order.
	Overrides []*Config
}

// Execute runs the exchange and returns the response when it completed. A
// declined or rejected exchange yields a nil response and a nil error unless
// the error handler re-raised.
func (c *Client) Execute(ctx context.Context, call Call) (*Response, error) {
	res, err := c.Exchange(ctx, call)
	if err != nil {
		return nil, err
	}
	return res.Response, nil
}

// Exchange performs exactly one network attempt and reports how it ended.
// Transport failures return *Error; interceptor aborts and handled status
// errors are reported on the Result.
func (c *Client) Exchange(ctx context.Context, call Call) (Result, error) {
	cfg := c.effective(call)
	method := cfg.effectiveMethod()
	target := buildURL(cfg, call.Path)
	host := hostOf(target)

	start := time.Now()
	var span trace.Span
	if c.tracing {
		ctx, span = observability.StartSpan(ctx, observability.SpanHTTPExchange,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String(observability.AttrMethod, method.String()),
				attribute.String(observability.AttrURL, target),
			),
		)
		defer span.End()
	}
	c.observer.ExchangeStarted(ctx, method, host)

	res, status, err := c.exchange(ctx, cfg, method, target, call)

	ev := ExchangeEvent{
		Method:     method,
		Host:       host,
		StatusCode: status,
		Duration:   time.Since(start),
		Err:        err,
	}
	switch {
	case err != nil && res.Outcome != OutcomeRejected:
		ev.Status = StatusFailed
	case res.Outcome == OutcomeDeclined:
		ev.Status = StatusDeclined
	case res.Outcome == OutcomeRejected:
		ev.Status = StatusRejected
	default:
		ev.Status = StatusCompleted
	}
	c.observer.ExchangeFinished(ctx, ev)
	if span != nil {
		c.endSpan(span, ev, res)
	}
	c.logExchange(ev, res)
	return res, err
}

// effective merges the default layer, the client layer, the call method and
// the call overrides.
func (c *Client) effective(call Call) *Config {
	layers := make([]*Config, 0, len(call.Overrides)+2)
	layers = append(layers, c.config)
	if call.Method != "" {
		layers = append(layers, call.Method.Config())
	}
	layers = append(layers, call.Overrides...)
	return Merge(DefaultConfig(), layers...)
}

func (c *Client) exchange(ctx context.Context, cfg *Config, method Method, target string, call Call) (Result, int, error) {
	if !method.Valid() {
		return Result{}, 0, NewConfigError("unsupported method " + method.String())
	}

	conn, err := c.transport.Open(ctx, target, cfg.Proxy.Value())
	if err != nil {
		return Result{}, 0, asClientError("open", err)
	}
	defer func() { _ = conn.Disconnect() }()

	output := method.IsOutput() && call.Body != nil
	c.configure(ctx, conn, cfg, method, output)

	if d := runRequestInterceptors(cfg.RequestInterceptors, target, conn, cfg); d.Aborted() {
		return Result{Outcome: OutcomeDeclined, Reason: d.Reason()}, 0, nil
	}

	if output {
		payload, err := cfg.RequestTransformer.Or(JSONTransformer{}).TransformRequest(call.Body, cfg.Headers)
		if err != nil {
			return Result{}, 0, NewEncodeError(err)
		}
		if _, err := conn.Write(payload); err != nil {
			return Result{}, 0, NewIOError("write body", err)
		}
	}

	status, err := conn.StatusCode()
	if err != nil {
		return Result{}, 0, asClientError("send", err)
	}
	msg, err := conn.StatusMessage()
	if err != nil {
		return Result{}, status, asClientError("read status", err)
	}
	header, err := conn.ResponseHeader()
	if err != nil {
		return Result{}, status, asClientError("read headers", err)
	}

	resp := &Response{
		StatusCode: status,
		Status:     msg,
		Header:     header,
		Config:     cfg,
		URL:        target,
	}

	if IsError(status, cfg.IgnoreStatus.Value()) {
		return c.reject(conn, cfg, resp)
	}

	if method != MethodHead {
		body, err := conn.Body()
		if err != nil {
			return Result{}, status, asClientError("read body", err)
		}
		if err := decodeBody(body, cfg, call.Target, resp); err != nil {
			return Result{}, status, err
		}
	}

	if d := runResponseInterceptors(cfg.ResponseInterceptors, resp); d.Aborted() {
		return Result{Outcome: OutcomeDeclined, Reason: d.Reason()}, status, nil
	}
	return Result{Response: resp, Outcome: OutcomeCompleted}, status, nil
}

// configure applies the effective configuration to conn. The connection hook
// runs last and can override anything set here.
func (c *Client) configure(ctx context.Context, conn Connection, cfg *Config, method Method, output bool) {
	conn.SetConnectTimeout(cfg.ConnectTimeout.Value())
	conn.SetReadTimeout(cfg.ReadTimeout.Value())
	conn.SetMethod(method)
	conn.SetUseCaches(cfg.UseCaches.Value())
	conn.SetOutput(output)
	for name, values := range cfg.Headers.Resolve() {
		conn.SetHeader(name, values[0])
	}
	if output && conn.Header().Get(HeaderContentType) == "" {
		if ct, ok := cfg.RequestTransformer.Value().(ContentTyper); ok {
			conn.SetHeader(HeaderContentType, ct.ContentType())
		}
	}
	if c.tracing {
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(conn.Header()))
	}
	if auth := cfg.Authenticator.Value(); auth != nil {
		conn.SetAuthenticator(auth)
	}
	if hook := cfg.ConnectionHook.Value(); hook != nil {
		hook(conn)
	}
}

// reject reads the error stream and hands the failure to the error handler.
func (c *Client) reject(conn Connection, cfg *Config, resp *Response) (Result, int, error) {
	text := ""
	if r, err := conn.ErrorBody(); err == nil && r != nil {
		if b, err := io.ReadAll(r); err == nil {
			text = string(b)
		}
	}
	resp.Body = text
	se := &StatusError{Response: resp}
	res := Result{Outcome: OutcomeRejected, Err: se}
	if h := cfg.ErrorHandler.Value(); h != nil {
		if err := h(se); err != nil {
			return res, resp.StatusCode, err
		}
	}
	return res, resp.StatusCode, nil
}

// decodeBody fills resp.Body from r according to target.
func decodeBody(r io.Reader, cfg *Config, target any, resp *Response) error {
	if target == nil {
		data, err := io.ReadAll(r)
		if err != nil {
			return NewIOError("read body", err)
		}
		resp.Body = RawBody(data)
		return nil
	}
	handled, err := decodePrimitive(r, target)
	if !handled {
		err = cfg.ResponseTransformer.Or(JSONTransformer{}).TransformResponse(r, target)
	}
	if err != nil {
		return NewDecodeError(resp.StatusCode, err)
	}
	resp.Body = target
	return nil
}

func buildURL(cfg *Config, path string) string {
	return cfg.BaseURL.Value() + path + cfg.Params.Value().Encode()
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

// asClientError keeps *Error values and wraps anything else as I/O.
func asClientError(op string, err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	return NewIOError(op, err)
}

func (c *Client) endSpan(span trace.Span, ev ExchangeEvent, res Result) {
	if ev.StatusCode > 0 {
		span.SetAttributes(attribute.Int(observability.AttrStatusCode, ev.StatusCode))
	}
	span.SetAttributes(attribute.String(observability.AttrOutcome, ev.Status))
	switch ev.Status {
	case StatusFailed:
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, ev.Err.Error())
	case StatusRejected:
		span.SetStatus(codes.Error, res.Err.Error())
	case StatusDeclined:
		span.SetAttributes(attribute.String(observability.AttrDeclineReason, res.Reason))
	}
}

func (c *Client) logExchange(ev ExchangeEvent, res Result) {
	fields := logger.Fields(
		"method", ev.Method.String(),
		"host", ev.Host,
		logger.FieldStatus, ev.Status,
		logger.FieldDuration, ev.Duration.Milliseconds(),
	)
	if ev.StatusCode > 0 {
		fields["status_code"] = ev.StatusCode
	}
	switch ev.Status {
	case StatusFailed:
		c.log.WithError(ev.Err).Debug("http exchange failed", fields)
	case StatusDeclined:
		fields["reason"] = res.Reason
		c.log.Debug("http exchange declined", fields)
	default:
		c.log.Debug("http exchange", fields)
	}
}
