package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbukum/strata/component"
	"github.com/kbukum/strata/metrics"
)

// metricsServer serves /metrics for the lifetime of the probe.
type metricsServer struct {
	addr string
	srv  *http.Server

	mu      sync.Mutex
	ln      net.Listener
	serving bool
}

var _ component.Component = (*metricsServer)(nil)

func newMetricsServer(addr string, g prometheus.Gatherer) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	return &metricsServer{
		addr: addr,
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
	}
}

func (s *metricsServer) Name() string { return "metrics" }

func (s *metricsServer) Start(context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.serving = true
	s.mu.Unlock()

	go func() {
		err := s.srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.mu.Lock()
			s.serving = false
			s.mu.Unlock()
		}
	}()
	return nil
}

func (s *metricsServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.serving = false
	s.mu.Unlock()
	return s.srv.Shutdown(ctx)
}

func (s *metricsServer) Health(context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := component.Health{Name: s.Name(), Status: component.StatusHealthy}
	if !s.serving {
		h.Status = component.StatusUnhealthy
		h.Message = "not serving"
	}
	return h
}

// Addr returns the bound address once started.
func (s *metricsServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

func (s *metricsServer) Describe() component.Description {
	return component.Description{Type: "metrics", Details: "http://" + s.Addr() + "/metrics"}
}
