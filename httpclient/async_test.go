package httpclient_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/strata/httpclient"
	"github.com/kbukum/strata/httpclient/httpclienttest"
)

func TestAsync_CompletesFuture(t *testing.T) {
	c, tr := newClient(t, httpclienttest.RespondJSON(201, `{"id":5,"name":"Eve"}`))
	a := httpclient.NewAsyncWithPool(c, workerpoolConfig(1))
	defer func() { _ = a.Close(context.Background()) }()

	ctx := context.Background()
	f := httpclient.PostAsync[user](ctx, a, "http://svc/users", user{Name: "Eve"})
	resp, err := f.Await(ctx)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if resp.StatusCode != 201 || resp.Data.ID != 5 {
		t.Errorf("resp = %+v", resp)
	}
	if got := string(tr.Last().Written()); got != `{"id":0,"name":"Eve"}` {
		t.Errorf("written = %s", got)
	}

	// A finished future answers without blocking.
	if again, err := f.Result(); err != nil || again != resp {
		t.Errorf("Result() = %v, %v", again, err)
	}
}

func TestAsync_FailedFuture(t *testing.T) {
	refused := errors.New("refused")
	c, _ := newClient(t, func(*httpclienttest.Conn) httpclienttest.Reply {
		return httpclienttest.Reply{Err: refused}
	})
	a := httpclient.NewAsyncWithPool(c, workerpoolConfig(1))
	defer func() { _ = a.Close(context.Background()) }()

	_, err := httpclient.GetAsync[user](context.Background(), a, "http://svc/").Await(context.Background())
	if !httpclient.IsIO(err) || !errors.Is(err, refused) {
		t.Errorf("err = %v", err)
	}
}

func TestAsync_PanicRejectsFuture(t *testing.T) {
	c, _ := newClient(t, httpclienttest.Respond(500, ""),
		httpclient.WithErrorHandler(func(*httpclient.StatusError) error { panic("boom") }))
	a := httpclient.NewAsyncWithPool(c, workerpoolConfig(1))
	defer func() { _ = a.Close(context.Background()) }()

	_, err := a.ExchangeAsync(context.Background(), httpclient.Call{Path: "http://svc/"}).Await(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v", err)
	}

	// The worker survives the panic.
	res, err := a.With(httpclient.IgnoreCodes(500).Config()).
		ExchangeAsync(context.Background(), httpclient.Call{Path: "http://svc/"}).
		Await(context.Background())
	if err != nil || !res.Completed() {
		t.Errorf("after panic: %+v, %v", res, err)
	}
}

func TestAsync_PendingResult(t *testing.T) {
	release := make(chan struct{})
	c, _ := newClient(t, func(*httpclienttest.Conn) httpclienttest.Reply {
		<-release
		return httpclienttest.Reply{StatusCode: 200}
	})
	a := httpclient.NewAsyncWithPool(c, workerpoolConfig(1))
	defer func() { _ = a.Close(context.Background()) }()

	f := httpclient.HeadAsync(context.Background(), a, "http://svc/")
	if _, err := f.Result(); !errors.Is(err, httpclient.ErrNotReady) {
		t.Errorf("Result() before completion = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await with expired ctx = %v", err)
	}

	close(release)
	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("future never completed")
	}
	if resp, err := f.Result(); err != nil || resp.StatusCode != 200 {
		t.Errorf("Result() = %v, %v", resp, err)
	}
}

func TestAsync_ClosedPool(t *testing.T) {
	c, _ := newClient(t, httpclienttest.Respond(200, ""))
	a := httpclient.NewAsyncWithPool(c, workerpoolConfig(1))
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err := httpclient.DeleteAsync[user](context.Background(), a, "http://svc/1").Await(context.Background())
	if !httpclient.IsPoolClosed(err) {
		t.Errorf("err = %v", err)
	}
}

func TestAsync_SharedPoolNotClosed(t *testing.T) {
	c, _ := newClient(t, httpclienttest.Respond(200, "x"))
	a := httpclient.NewAsync(c)
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if httpclient.DefaultPool().Closed() {
		t.Fatal("closing a shared-pool client must not close the pool")
	}
	s, err := httpclient.GetAsync[string](context.Background(), a, "http://svc/").Await(context.Background())
	if err != nil || s.Data != "x" {
		t.Errorf("GetAsync = %v, %v", s, err)
	}
	if a.Client() != c {
		t.Error("Client() should return the wrapped client")
	}
}

func TestAsync_ForObject(t *testing.T) {
	c, tr := newClient(t, httpclienttest.RespondJSON(200, `{"id":9,"name":"Kim"}`))
	a := httpclient.NewAsyncWithPool(c, workerpoolConfig(2))
	defer func() { _ = a.Close(context.Background()) }()

	ctx := context.Background()
	tests := []struct {
		name   string
		future func() *httpclient.Future[user]
		method httpclient.Method
		body   string
	}{
		{"get", func() *httpclient.Future[user] { return httpclient.GetForObjectAsync[user](ctx, a, "http://svc/u") }, httpclient.MethodGet, ""},
		{"post", func() *httpclient.Future[user] {
			return httpclient.PostForObjectAsync[user](ctx, a, "http://svc/u", user{Name: "Kim"})
		}, httpclient.MethodPost, `{"id":0,"name":"Kim"}`},
		{"put", func() *httpclient.Future[user] {
			return httpclient.PutForObjectAsync[user](ctx, a, "http://svc/u", user{ID: 9})
		}, httpclient.MethodPut, `{"id":9,"name":""}`},
		{"patch", func() *httpclient.Future[user] { return httpclient.PatchForObjectAsync[user](ctx, a, "http://svc/u") }, httpclient.MethodPatch, ""},
		{"delete", func() *httpclient.Future[user] { return httpclient.DeleteForObjectAsync[user](ctx, a, "http://svc/u") }, httpclient.MethodDelete, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.future().Await(ctx)
			if err != nil {
				t.Fatalf("Await: %v", err)
			}
			if got != (user{ID: 9, Name: "Kim"}) {
				t.Errorf("body = %+v", got)
			}
			conn := tr.Last()
			if conn.Method() != tt.method {
				t.Errorf("method = %s, want %s", conn.Method(), tt.method)
			}
			if string(conn.Written()) != tt.body {
				t.Errorf("written = %q, want %q", conn.Written(), tt.body)
			}
		})
	}
}

func TestAsync_ForObjectStatusError(t *testing.T) {
	c, _ := newClient(t, httpclienttest.Respond(404, "gone"), httpclient.WithErrorHandler(httpclient.RaiseErrorHandler))
	a := httpclient.NewAsyncWithPool(c, workerpoolConfig(1))
	defer func() { _ = a.Close(context.Background()) }()

	got, err := httpclient.GetForObjectAsync[user](context.Background(), a, "http://svc/u").Await(context.Background())
	se, ok := httpclient.AsStatusError(err)
	if !ok || se.StatusCode() != 404 || se.Body() != "gone" {
		t.Errorf("err = %v", err)
	}
	if got != (user{}) {
		t.Errorf("body = %+v", got)
	}
}
