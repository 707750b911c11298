package wasmbuild

import (
	"context"
	"sync"
)

// BuildAll runs every request's Build concurrently and waits for all of
// them to finish before returning, since at most seven foreign-language
// blocks ever exist per component and nothing here needs cancellation
// propagation beyond the shared context — a plain sync.WaitGroup with
// per-request result slots is simpler than an errgroup dependency for
// that small, fixed fan-out.
func BuildAll(ctx context.Context, cache *Cache, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			result, err := cache.Build(ctx, req)
			results[i] = result
			errs[i] = err
		}(i, req)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
