package wasmbuild

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/decorous-lang/decorous/internal/helpers"
)

// Cache wraps a Driver, memoizing Build by the SHA-256 of the request's
// source text so byte-identical foreign-language blocks across multiple
// components compiled in the same CLI invocation only invoke the
// external toolchain once. A cache hit and a cache miss return
// byte-identical .wasm bytes, so this is purely an optimization, never
// a semantic change.
type Cache struct {
	drivers map[Lang]Driver
	cache   *lru.Cache[string, *Result]
	mu      sync.Mutex
}

// NewCache builds a Cache of size entries, one driver instance per
// language created lazily on first use.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, err
	}
	return &Cache{drivers: map[Lang]Driver{}, cache: c}, nil
}

// Build returns a cached Result for req.Lang+req.Source if one exists,
// otherwise builds it via the language's Driver and caches the result.
func (c *Cache) Build(ctx context.Context, req Request) (*Result, error) {
	key := string(req.Lang) + ":" + helpers.SHA256(req.Source)

	c.mu.Lock()
	if cached, ok := c.cache.Get(key); ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	driver, err := c.driverFor(req.Lang)
	if err != nil {
		return nil, err
	}

	result, err := driver.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.Add(key, result)
	c.mu.Unlock()
	return result, nil
}

func (c *Cache) driverFor(lang Lang) (Driver, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.drivers[lang]; ok {
		return d, nil
	}
	d, err := driverFor(lang)
	if err != nil {
		return nil, err
	}
	c.drivers[lang] = d
	return d, nil
}
