package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kbukum/strata/logger"
)

// Common pool errors.
var (
	ErrClosed = errors.New("worker pool is closed")
	ErrFull   = errors.New("worker pool queue is full")
)

// Config configures a pool.
type Config struct {
	// Name identifies the pool in logs.
	Name string `mapstructure:"name"`
	// Workers is the fixed number of worker goroutines.
	Workers int `mapstructure:"workers" validate:"gte=0"`
	// QueueSize bounds the number of tasks waiting for a worker.
	QueueSize int `mapstructure:"queue_size" validate:"gte=0"`
	// OnPanic is called with the recovered value when a task panics.
	OnPanic func(name string, v any)
}

// DefaultConfig returns a five-worker pool with a queue of 64.
func DefaultConfig(name string) Config {
	return Config{
		Name:      name,
		Workers:   5,
		QueueSize: 64,
	}
}

// ApplyDefaults fills zero values from DefaultConfig.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig(c.Name)
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
}

// Pool is a fixed-size worker pool.
type Pool struct {
	config Config
	tasks  chan func()
	stop   chan struct{}

	mu         sync.RWMutex
	closed     bool
	submitters sync.WaitGroup
	workers    sync.WaitGroup
	closeOnce  sync.Once

	active atomic.Int64
}

// New starts a pool.
func New(config Config) *Pool {
	config.ApplyDefaults()
	p := &Pool{
		config: config,
		tasks:  make(chan func(), config.QueueSize),
		stop:   make(chan struct{}),
	}
	p.workers.Add(config.Workers)
	for i := 0; i < config.Workers; i++ {
		go p.work()
	}
	return p
}

// Submit queues task, waiting for queue space until ctx is done.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	if !p.enter() {
		return ErrClosed
	}
	defer p.submitters.Done()

	select {
	case p.tasks <- task:
		return nil
	case <-p.stop:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues task or fails immediately with ErrFull.
func (p *Pool) TrySubmit(task func()) error {
	if !p.enter() {
		return ErrClosed
	}
	defer p.submitters.Done()

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrFull
	}
}

// Close stops accepting tasks, runs everything already queued and waits for
// the workers to exit or ctx to end.
func (p *Pool) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.stop)
		p.submitters.Wait()
		close(p.tasks)
	})

	done := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("workerpool %s: close: %w", p.config.Name, ctx.Err())
	}
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int { return p.config.Workers }

// Pending returns the number of queued tasks.
func (p *Pool) Pending() int { return len(p.tasks) }

// Active returns the number of tasks currently running.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// enter registers a submitter unless the pool is closed.
func (p *Pool) enter() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.submitters.Add(1)
	return true
}

func (p *Pool) work() {
	defer p.workers.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	p.active.Add(1)
	defer p.active.Add(-1)
	defer func() {
		if v := recover(); v != nil {
			if p.config.OnPanic != nil {
				p.config.OnPanic(p.config.Name, v)
				return
			}
			logger.WithComponent("workerpool").Error("task panicked", logger.Fields(
				"pool", p.config.Name,
				"panic", fmt.Sprint(v),
			))
		}
	}()
	task()
}
