package llm

import (
	"context"
	"time"

	"github.com/ppiankov/claimify/internal/cache"
)

// cachedClient wraps a Client with response caching. Identical prompt
// pairs against the same provider/model return the cached response
// without an API call, so re-running extraction over the same text is free.
type cachedClient struct {
	inner Client
	cache cache.Cache
	model string
	ttl   time.Duration
}

// Cached wraps client with the given cache. A nil cache returns the
// client unchanged.
func Cached(client Client, c cache.Cache, model string, ttl time.Duration) Client {
	if c == nil {
		return client
	}
	return &cachedClient{
		inner: client,
		cache: c,
		model: model,
		ttl:   ttl,
	}
}

func (c *cachedClient) Name() string {
	return c.inner.Name()
}

func (c *cachedClient) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

func (c *cachedClient) Request(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	key := cache.Key(c.inner.Name(), c.model, systemPrompt, userPrompt)

	if data, found := c.cache.Get(key); found {
		return string(data), nil
	}

	response, err := c.inner.Request(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	// Cache write failures are non-fatal: the response is still good
	_ = c.cache.Set(key, []byte(response), c.ttl)

	return response, nil
}
