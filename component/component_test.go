package component

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
	stopCtx  context.Context
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	if f.events != nil {
		*f.events = append(*f.events, "start:"+f.name)
	}
	return f.startErr
}

func (f *fakeComponent) Stop(ctx context.Context) error {
	f.stopCtx = ctx
	if f.events != nil {
		*f.events = append(*f.events, "stop:"+f.name)
	}
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) Health { return f.health }

type describedComponent struct {
	fakeComponent
	desc Description
}

func (d *describedComponent) Describe() Description { return d.desc }

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeComponent{name: "users-api"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&fakeComponent{name: "users-api"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
	if got := r.Get("users-api"); got == nil || got.Name() != "users-api" {
		t.Errorf("Get returned %v", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown component, got %v", got)
	}
}

func TestRegistry_StartStopOrder(t *testing.T) {
	var events []string
	r := NewRegistry()
	for _, name := range []string{"a", "b", "c"} {
		_ = r.Register(&fakeComponent{name: name, events: &events})
	}

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(ctx); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{"start:a", "start:b", "start:c", "stop:c", "stop:b", "stop:a"}
	if !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}

	// Nothing is left running, so a second StopAll stops nothing.
	events = nil
	if err := r.StopAll(ctx); err != nil || len(events) != 0 {
		t.Errorf("second StopAll: err=%v events=%v", err, events)
	}
}

func TestRegistry_StartFailureStopsStarted(t *testing.T) {
	var events []string
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "a", events: &events})
	_ = r.Register(&fakeComponent{name: "b", events: &events})
	_ = r.Register(&fakeComponent{name: "c", events: &events, startErr: errors.New("bad settings")})
	_ = r.Register(&fakeComponent{name: "d", events: &events})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to start c") {
		t.Fatalf("expected start error for c, got %v", err)
	}

	want := []string{"start:a", "start:b", "start:c", "stop:b", "stop:a"}
	if !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestRegistry_StopErrorsJoined(t *testing.T) {
	r := NewRegistry()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	_ = r.Register(&fakeComponent{name: "a", stopErr: errA})
	_ = r.Register(&fakeComponent{name: "b", stopErr: errB})
	_ = r.Register(&fakeComponent{name: "c"})

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	err := r.StopAll(ctx)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both stop errors, got %v", err)
	}
}

func TestRegistry_StopTimeout(t *testing.T) {
	c := &fakeComponent{name: "pool"}
	r := NewRegistry(WithStopTimeout(50 * time.Millisecond))
	_ = r.Register(c)

	ctx := context.Background()
	_ = r.StartAll(ctx)
	_ = r.StopAll(ctx)

	deadline, ok := c.stopCtx.Deadline()
	if !ok {
		t.Fatal("expected stop context with deadline")
	}
	if remaining := time.Until(deadline); remaining > 50*time.Millisecond {
		t.Errorf("deadline too far away: %v", remaining)
	}
}

func TestRegistry_Health(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	_ = r.Register(&fakeComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded}})

	ctx := context.Background()
	all := r.HealthAll(ctx)
	if len(all) != 2 || all[0].Name != "a" || all[1].Status != StatusDegraded {
		t.Errorf("unexpected health: %+v", all)
	}
	if !r.Healthy(ctx) {
		t.Error("degraded component should not make the registry unhealthy")
	}

	_ = r.Register(&fakeComponent{name: "c", health: Health{Name: "c", Status: StatusUnhealthy, Message: "not started"}})
	if r.Healthy(ctx) {
		t.Error("expected unhealthy registry")
	}
}

func TestRegistry_Describe(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "plain"})
	_ = r.Register(&describedComponent{
		fakeComponent: fakeComponent{name: "users-api"},
		desc:          Description{Type: "http-client", Details: "workers=5 queue=64"},
	})

	got := r.Describe()
	if len(got) != 2 {
		t.Fatalf("expected 2 descriptions, got %d", len(got))
	}
	if got[0] != (Description{Name: "plain"}) {
		t.Errorf("plain description = %+v", got[0])
	}
	if got[1].Name != "users-api" || got[1].Type != "http-client" {
		t.Errorf("described = %+v", got[1])
	}
}

func TestRegistry_All(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "x"})
	_ = r.Register(&fakeComponent{name: "y"})

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	if !slices.Equal(names, []string{"x", "y"}) {
		t.Errorf("All = %v", names)
	}
}
