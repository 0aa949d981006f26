package llm

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// loggedClient wraps a Client with per-call logging to the given writer
// (stderr in practice, so output never mixes with extracted claims on stdout)
type loggedClient struct {
	inner Client
	out   io.Writer
	calls atomic.Int64
}

// Logged wraps client so every request logs its call number, prompt
// sizes, and duration. A nil writer returns the client unchanged.
func Logged(client Client, out io.Writer) Client {
	if out == nil {
		return client
	}
	return &loggedClient{
		inner: client,
		out:   out,
	}
}

func (c *loggedClient) Name() string {
	return c.inner.Name()
}

func (c *loggedClient) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

func (c *loggedClient) Request(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	n := c.calls.Add(1)
	fmt.Fprintf(c.out, "LLM call #%d (%s): system %d chars, user %d chars\n",
		n, c.inner.Name(), len(systemPrompt), len(userPrompt))

	start := time.Now()
	response, err := c.inner.Request(ctx, systemPrompt, userPrompt)
	duration := time.Since(start)

	if err != nil {
		fmt.Fprintf(c.out, "LLM call #%d failed after %.2fs: %v\n", n, duration.Seconds(), err)
		return "", err
	}

	fmt.Fprintf(c.out, "LLM call #%d done in %.2fs: %d chars\n", n, duration.Seconds(), len(response))
	return response, nil
}
