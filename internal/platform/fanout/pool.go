// Package fanout runs keyed upstream sub-calls concurrently on a bounded ants worker pool.
package fanout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Pool bounds how many sub-calls run at once across all requests
type Pool struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// Config holds worker pool settings
type Config struct {
	Size int
}

// NewPool creates a pool with the configured number of workers
func NewPool(config Config, logger *slog.Logger) (*Pool, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &Pool{
		pool:   pool,
		logger: logger,
	}, nil
}

// Collect calls fn once per key on the pool and gathers the results keyed by input.
// The first failure cancels the remaining calls and is returned; partial results are discarded.
// Duplicate keys are called once.
func Collect[K comparable, V any](ctx context.Context, p *Pool, keys []K, fn func(ctx context.Context, key K) (V, error)) (map[K]V, error) {
	results := make(map[K]V, len(keys))
	if len(keys) == 0 {
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	seen := make(map[K]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			v, err := fn(ctx, key)
			if err != nil {
				fail(err)
				return
			}
			mu.Lock()
			results[key] = v
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			p.logger.Error("Failed to submit task to worker pool", "key", fmt.Sprint(key), "error", err)
			fail(fmt.Errorf("failed to submit task to worker pool: %w", err))
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// Cancellation from the caller without any task failing
	if err := ctx.Err(); err != nil && len(results) < len(seen) {
		return nil, err
	}
	return results, nil
}

// Shutdown releases the workers.
func (p *Pool) Shutdown() {
	p.logger.Info("Shutting down worker pool", "running_workers", p.pool.Running())
	p.pool.Release()
}

// Running returns the number of running workers in the pool.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (p *Pool) Capacity() int {
	return p.pool.Cap()
}
