package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// throttledClient wraps a Client with a rate limiter so a long document
// doesn't hammer the provider with one request per sentence per stage
type throttledClient struct {
	inner   Client
	limiter *rate.Limiter
}

// Throttled wraps client with a requests-per-second limit. A rate of
// zero or less disables throttling and returns the client unchanged.
func Throttled(client Client, requestsPerSecond float64, burst int) Client {
	if requestsPerSecond <= 0 {
		return client
	}
	if burst <= 0 {
		burst = 1
	}

	return &throttledClient{
		inner:   client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (c *throttledClient) Name() string {
	return c.inner.Name()
}

func (c *throttledClient) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

func (c *throttledClient) Request(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return c.inner.Request(ctx, systemPrompt, userPrompt)
}
