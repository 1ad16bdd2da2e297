package httpclient

// Decision is the verdict of an interceptor: continue the exchange or abort it.
type Decision struct {
	abort  bool
	reason string
}

// Continue lets the exchange proceed.
func Continue() Decision { return Decision{} }

// Abort stops the exchange. The reason is reported on the Result.
func Abort(reason string) Decision { return Decision{abort: true, reason: reason} }

// Aborted reports whether the decision stops the exchange.
func (d Decision) Aborted() bool { return d.abort }

// Reason returns the abort reason.
func (d Decision) Reason() string { return d.reason }

// RequestInterceptor runs after the connection is configured and before the
// request body is written. It may modify the connection.
type RequestInterceptor func(url string, conn Connection, cfg *Config) Decision

// ResponseInterceptor runs after a successful response body has been decoded.
// It may replace the body with Response.SetBody.
type ResponseInterceptor func(resp *Response) Decision

// runRequestInterceptors returns the first aborting decision, or Continue.
func runRequestInterceptors(chain []RequestInterceptor, url string, conn Connection, cfg *Config) Decision {
	for _, ic := range chain {
		if ic == nil {
			continue
		}
		if d := ic(url, conn, cfg); d.Aborted() {
			return d
		}
	}
	return Continue()
}

// runResponseInterceptors returns the first aborting decision, or Continue.
func runResponseInterceptors(chain []ResponseInterceptor, resp *Response) Decision {
	for _, ic := range chain {
		if ic == nil {
			continue
		}
		if d := ic(resp); d.Aborted() {
			return d
		}
	}
	return Continue()
}
