// Package workerpool runs submitted tasks on a fixed number of goroutines
// fed by a bounded queue.
//
//	pool := workerpool.New(workerpool.Config{Name: "http", Workers: 5, QueueSize: 64})
//	defer pool.Close(ctx)
//
//	err := pool.Submit(ctx, func() { ... })
package workerpool
