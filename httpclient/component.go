package httpclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/strata/component"
)

// Component wraps a Client and its async pool with lifecycle management.
type Component struct {
	settings Settings
	opts     []Option

	mu     sync.RWMutex
	client *Client
	async  *AsyncClient
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a client component. The client is built in Start.
func NewComponent(s Settings, opts ...Option) *Component {
	return &Component{settings: s, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.settings.Name == "" {
		return "httpclient"
	}
	return c.settings.Name
}

// Start builds the client and its dedicated worker pool.
func (c *Component) Start(_ context.Context) error {
	client, err := FromSettings(c.settings, c.opts...)
	if err != nil {
		return err
	}
	pool := c.settings.Pool
	if pool.Name == "" {
		pool.Name = c.Name()
	}
	c.mu.Lock()
	c.client = client
	c.async = NewAsyncWithPool(client, pool)
	c.mu.Unlock()
	return nil
}

// Stop drains the worker pool.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.RLock()
	async := c.async
	c.mu.RUnlock()
	if async == nil {
		return nil
	}
	return async.Close(ctx)
}

// Health reports unhealthy before Start and after Stop.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case c.async.pool.Closed():
		h.Status = component.StatusUnhealthy
		h.Message = "worker pool closed"
	}
	return h
}

// Describe returns component description for the startup summary.
func (c *Component) Describe() component.Description {
	pool := c.settings.Pool
	pool.ApplyDefaults()
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: fmt.Sprintf("%s workers=%d queue=%d", c.settings.BaseURL, pool.Workers, pool.QueueSize),
	}
}

// Client returns the synchronous client. Must be called after Start.
func (c *Component) Client() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// Async returns the asynchronous client. Must be called after Start.
func (c *Component) Async() *AsyncClient {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.async
}
