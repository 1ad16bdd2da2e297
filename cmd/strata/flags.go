package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

type headerFlags []string

func (h *headerFlags) String() string { return strings.Join(*h, ", ") }

func (h *headerFlags) Set(v string) error {
	if !strings.Contains(v, ":") {
		return fmt.Errorf("header %q must look like 'Name: value'", v)
	}
	*h = append(*h, v)
	return nil
}

type options struct {
	configFile  string
	envFile     string
	method      string
	data        string
	headers     headerFlags
	count       int
	concurrency int
	interval    time.Duration
	metricsAddr string
	url         string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("strata", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configFile, "config", "", "path to config.yml")
	fs.StringVar(&o.envFile, "env", "", "path to a .env file")
	fs.StringVar(&o.method, "X", "", "request method (default from config, else GET)")
	fs.StringVar(&o.data, "d", "", "JSON request body")
	fs.Var(&o.headers, "H", "request header 'Name: value' (repeatable)")
	fs.IntVar(&o.count, "count", 1, "number of rounds; 0 runs until interrupted")
	fs.IntVar(&o.concurrency, "c", 1, "concurrent requests per round")
	fs.DurationVar(&o.interval, "interval", time.Second, "pause between rounds")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, errors.New("exactly one URL argument is required")
	}
	o.url = fs.Arg(0)
	if o.count < 0 || o.concurrency < 1 {
		return nil, errors.New("count must be >= 0 and -c must be >= 1")
	}
	return o, nil
}
