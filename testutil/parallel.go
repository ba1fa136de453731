// Package testutil holds helpers for the concurrency tests of this module.
package testutil

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Parallel runs fn for every i in [0, n) across a goroutine pool of the
// given size and waits for all of them, returning the first error observed.
// It is the harness the event package uses to hammer attach/detach/invoke
// from many goroutines at once.
func Parallel(workers, n int, fn func(i int) error) error {
	if workers <= 0 {
		workers = n
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("testutil: create pool: %w", err)
	}
	defer pool.Release()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := fn(i); err != nil {
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			if first == nil {
				first = fmt.Errorf("testutil: submit task %d: %w", i, err)
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()
	return first
}
