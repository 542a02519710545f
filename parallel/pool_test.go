package parallel

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestPoolRunsEveryJob(t *testing.T) {
	for _, workers := range []int{1, 4} {
		pool := Start(workers)
		var n atomic.Int64
		for range 100 {
			pool.Do(func() { n.Add(1) })
		}
		pool.Wait()

		if got := n.Load(); got != 100 {
			t.Errorf("%d workers: ran %d jobs, want 100", workers, got)
		}
	}
}

func TestStartDefaultsToGOMAXPROCS(t *testing.T) {
	pool := Start(0)
	defer pool.Wait()
	if pool.Workers() != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers() = %d, want %d", pool.Workers(), runtime.GOMAXPROCS(0))
	}
}

func TestWaitTwice(t *testing.T) {
	pool := Start(3)
	pool.Do(func() {})
	pool.Wait()
	pool.Wait()
}

func TestEach(t *testing.T) {
	pool := Start(3)
	defer pool.Wait()

	var sum atomic.Int64
	skipped := Each(context.Background(), pool, []int{1, 2, 3, 4, 5}, func(v int) {
		sum.Add(int64(v))
	})
	if skipped != 0 || sum.Load() != 15 {
		t.Errorf("sum = %d, skipped = %d", sum.Load(), skipped)
	}

	// the pool stays usable after Each
	sum.Store(0)
	Each(context.Background(), pool, []int{10}, func(v int) { sum.Add(int64(v)) })
	if sum.Load() != 10 {
		t.Errorf("second batch sum = %d", sum.Load())
	}
}

func TestEachCanceled(t *testing.T) {
	pool := Start(1)
	defer pool.Wait()

	ctx, cancel := context.WithCancel(context.Background())
	var ran int
	skipped := Each(ctx, pool, []string{"a", "b", "c", "d"}, func(string) {
		ran++
		if ran == 2 {
			cancel()
		}
	})
	if ran != 2 || skipped != 2 {
		t.Errorf("ran %d, skipped %d; want 2 and 2", ran, skipped)
	}
}
