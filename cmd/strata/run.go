package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbukum/strata/bootstrap"
	"github.com/kbukum/strata/config"
	"github.com/kbukum/strata/httpclient"
	"github.com/kbukum/strata/logger"
	"github.com/kbukum/strata/metrics"
)

const serviceName = "strata"

type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	HTTPClient           httpclient.Settings `yaml:"httpclient" mapstructure:"httpclient"`
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}
	cfg := &appConfig{}
	if err := config.LoadConfig(serviceName, cfg, loaderOpts...); err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	col := metrics.New(reg)
	if opts.metricsAddr != "" {
		if err := app.RegisterComponent(newMetricsServer(opts.metricsAddr, reg)); err != nil {
			return err
		}
	}
	client := httpclient.NewComponent(cfg.HTTPClient,
		httpclient.WithObserver(col),
		httpclient.WithLogger(app.Logger.WithComponent("httpclient")),
	)
	if err := app.RegisterComponent(client); err != nil {
		return err
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		p := &prober{
			async:  client.Async().With(col.Layer()),
			opts:   opts,
			out:    stdout,
			logger: app.Logger.WithComponent("probe"),
		}
		return p.run(ctx)
	})
}

type prober struct {
	async  *httpclient.AsyncClient
	opts   *options
	out    io.Writer
	logger *logger.Logger
}

func (p *prober) call() (httpclient.Call, error) {
	call := httpclient.Call{Path: p.opts.url}
	if p.opts.method != "" {
		m, err := httpclient.ParseMethod(p.opts.method)
		if err != nil {
			return call, err
		}
		call.Method = m
	}
	if p.opts.data != "" {
		if !json.Valid([]byte(p.opts.data)) {
			return call, fmt.Errorf("-d is not valid JSON")
		}
		call.Body = json.RawMessage(p.opts.data)
	}
	if len(p.opts.headers) > 0 {
		h := httpclient.NewHeaders()
		for _, kv := range p.opts.headers {
			name, value, _ := strings.Cut(kv, ":")
			h.Set(strings.TrimSpace(name), strings.TrimSpace(value))
		}
		call.Overrides = append(call.Overrides, &httpclient.Config{Headers: h})
	}
	return call, nil
}

// run fires opts.concurrency exchanges per round and prints one line per
// result. It fails if any exchange in the last round failed.
func (p *prober) run(ctx context.Context) error {
	call, err := p.call()
	if err != nil {
		return err
	}

	var lastErr error
	for round := 1; p.opts.count == 0 || round <= p.opts.count; round++ {
		futures := make([]*httpclient.Future[httpclient.Result], p.opts.concurrency)
		for i := range futures {
			futures[i] = p.async.ExchangeAsync(ctx, call)
		}

		lastErr = nil
		for i, f := range futures {
			res, err := f.Await(ctx)
			p.print(round, i+1, res, err)
			if err != nil {
				lastErr = err
			}
		}

		if p.opts.count != 0 && round == p.opts.count {
			break
		}
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(p.opts.interval):
		}
	}
	return lastErr
}

func (p *prober) print(round, n int, res httpclient.Result, err error) {
	prefix := fmt.Sprintf("[%d.%d]", round, n)
	switch {
	case err != nil:
		fmt.Fprintf(p.out, "%s error: %v\n", prefix, err)
		p.logger.Warn("exchange failed", logger.Fields(logger.FieldError, err.Error(), logger.FieldURL, p.opts.url))
	case res.Outcome == httpclient.OutcomeDeclined:
		fmt.Fprintf(p.out, "%s declined: %s\n", prefix, res.Reason)
	case res.Outcome == httpclient.OutcomeRejected:
		fmt.Fprintf(p.out, "%s %d %s\n", prefix, res.Err.StatusCode(), strings.TrimSpace(res.Err.Body()))
	default:
		fmt.Fprintf(p.out, "%s %d %s\n", prefix, res.Response.StatusCode, bodyString(res.Response.Body))
	}
}

func bodyString(body any) string {
	switch b := body.(type) {
	case nil:
		return ""
	case httpclient.RawBody:
		return strings.TrimSpace(b.String())
	default:
		return fmt.Sprint(b)
	}
}
