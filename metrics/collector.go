package metrics

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kbukum/strata/httpclient"
)

// DefaultBuckets are the exchange duration buckets in seconds.
var DefaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 7.5, 10}

// Collector records exchanges. It implements httpclient.Observer; Layer adds
// interceptors that count sent requests and decoded responses.
type Collector struct {
	ExchangesTotal   *prometheus.CounterVec
	ExchangeDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec
	ErrorsTotal      *prometheus.CounterVec
	RequestsSent     *prometheus.CounterVec
	ResponsesDecoded *prometheus.CounterVec
}

var _ httpclient.Observer = (*Collector)(nil)

type options struct {
	namespace string
	buckets   []float64
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace prefixes every metric name. The default is "strata".
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets overrides DefaultBuckets.
func WithBuckets(b []float64) Option {
	return func(o *options) { o.buckets = b }
}

// New creates a collector whose metrics are registered with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer, opts ...Option) *Collector {
	o := options{namespace: "strata", buckets: DefaultBuckets}
	for _, opt := range opts {
		opt(&o)
	}
	f := promauto.With(reg)

	return &Collector{
		ExchangesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "httpclient",
			Name:      "exchanges_total",
			Help:      "Finished exchanges by method, host, outcome and status code.",
		}, []string{"method", "host", "outcome", "status_code"}),
		ExchangeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "httpclient",
			Name:      "exchange_duration_seconds",
			Help:      "Exchange duration in seconds.",
			Buckets:   o.buckets,
		}, []string{"method", "host", "outcome"}),
		InFlight: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Subsystem: "httpclient",
			Name:      "exchanges_in_flight",
			Help:      "Exchanges currently running.",
		}, []string{"method", "host"}),
		ErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "httpclient",
			Name:      "errors_total",
			Help:      "Failed and rejected exchanges by error type.",
		}, []string{"host", "error_type"}),
		RequestsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "httpclient",
			Name:      "requests_sent_total",
			Help:      "Requests that passed every earlier request interceptor.",
		}, []string{"method", "host"}),
		ResponsesDecoded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "httpclient",
			Name:      "responses_decoded_total",
			Help:      "Successful responses that reached the response interceptors.",
		}, []string{"host", "content_type"}),
	}
}

// ExchangeStarted increments the in-flight gauge.
func (c *Collector) ExchangeStarted(_ context.Context, method httpclient.Method, host string) {
	c.InFlight.WithLabelValues(method.String(), host).Inc()
}

// ExchangeFinished records the outcome and duration.
func (c *Collector) ExchangeFinished(_ context.Context, ev httpclient.ExchangeEvent) {
	method := ev.Method.String()
	c.InFlight.WithLabelValues(method, ev.Host).Dec()

	code := ""
	if ev.StatusCode > 0 {
		code = strconv.Itoa(ev.StatusCode)
	}
	c.ExchangesTotal.WithLabelValues(method, ev.Host, ev.Status, code).Inc()
	c.ExchangeDuration.WithLabelValues(method, ev.Host, ev.Status).Observe(ev.Duration.Seconds())

	switch ev.Status {
	case httpclient.StatusFailed:
		c.ErrorsTotal.WithLabelValues(ev.Host, httpclient.ErrorType(ev.Err)).Inc()
	case httpclient.StatusRejected:
		c.ErrorsTotal.WithLabelValues(ev.Host, "status").Inc()
	}
}

// RequestInterceptor counts requests by method and host. Place it last so
// only requests that are really sent are counted.
func (c *Collector) RequestInterceptor() httpclient.RequestInterceptor {
	return func(rawURL string, conn httpclient.Connection, _ *httpclient.Config) httpclient.Decision {
		c.RequestsSent.WithLabelValues(conn.Method().String(), hostOf(rawURL)).Inc()
		return httpclient.Continue()
	}
}

// ResponseInterceptor counts decoded responses by host and media type.
func (c *Collector) ResponseInterceptor() httpclient.ResponseInterceptor {
	return func(resp *httpclient.Response) httpclient.Decision {
		c.ResponsesDecoded.WithLabelValues(hostOf(resp.URL), mediaType(resp.Header)).Inc()
		return httpclient.Continue()
	}
}

// Layer returns a configuration layer carrying both interceptors.
func (c *Collector) Layer() *httpclient.Config {
	return &httpclient.Config{
		RequestInterceptors:  []httpclient.RequestInterceptor{c.RequestInterceptor()},
		ResponseInterceptors: []httpclient.ResponseInterceptor{c.ResponseInterceptor()},
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func mediaType(h http.Header) string {
	ct := h.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}
