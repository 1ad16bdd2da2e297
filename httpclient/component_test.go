package httpclient_test

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/strata/component"
	"github.com/kbukum/strata/httpclient"
	"github.com/kbukum/strata/httpclient/httpclienttest"
	"github.com/kbukum/strata/workerpool"
)

func TestComponent_Lifecycle(t *testing.T) {
	tr := httpclienttest.NewTransport(httpclienttest.Respond(200, "pong"))
	c := httpclient.NewComponent(httpclient.Settings{
		Name:    "ping-api",
		BaseURL: "https://ping.example.com",
		Pool:    workerpool.Config{Workers: 2},
	}, httpclient.WithTransport(tr))

	ctx := context.Background()
	if c.Name() != "ping-api" {
		t.Errorf("Name = %q", c.Name())
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %v", h.Status)
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("health after start = %+v", h)
	}

	s, err := httpclient.GetAsync[string](ctx, c.Async(), "/ping").Await(ctx)
	if err != nil || s.Data != "pong" {
		t.Errorf("GetAsync = %v, %v", s, err)
	}
	if _, err := c.Client().Execute(ctx, httpclient.Call{Path: "/ping"}); err != nil {
		t.Errorf("Execute: %v", err)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("health after stop = %v", h.Status)
	}
}

func TestComponent_StartRejectsInvalidSettings(t *testing.T) {
	c := httpclient.NewComponent(httpclient.Settings{Method: "BREW"})
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected start error")
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop before start: %v", err)
	}
}

func TestComponent_Describe(t *testing.T) {
	c := httpclient.NewComponent(httpclient.Settings{BaseURL: "https://x.example.com"})
	d := c.Describe()
	if d.Name != "httpclient" || d.Type != "http-client" {
		t.Errorf("description = %+v", d)
	}
	if !strings.Contains(d.Details, "workers=5") || !strings.Contains(d.Details, "queue=64") {
		t.Errorf("details = %q", d.Details)
	}
}

func TestComponent_Registry(t *testing.T) {
	reg := component.NewRegistry()
	c := httpclient.NewComponent(httpclient.Settings{Name: "a"},
		httpclient.WithTransport(httpclienttest.NewTransport(nil)))
	if err := reg.Register(c); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := reg.StartAll(ctx); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := reg.StopAll(ctx); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
}
