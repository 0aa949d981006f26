package llm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/claimify/internal/cache"
)

// countingClient implements Client and counts requests
type countingClient struct {
	calls    int
	response string
	err      error
}

func (c *countingClient) Name() string {
	return "counting"
}

func (c *countingClient) IsAvailable(ctx context.Context) bool {
	return true
}

func (c *countingClient) Request(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func TestCached_HitSkipsInnerCall(t *testing.T) {
	inner := &countingClient{response: "Verdict: contains_verifiable_claim"}
	memory := cache.NewMemoryCache(time.Hour, time.Hour)
	client := Cached(inner, memory, "gpt-4o-mini", time.Hour)

	ctx := context.Background()

	first, err := client.Request(ctx, "system", "user")
	if err != nil {
		t.Fatalf("First request failed: %v", err)
	}
	second, err := client.Request(ctx, "system", "user")
	if err != nil {
		t.Fatalf("Second request failed: %v", err)
	}

	if first != second {
		t.Errorf("Cached response differs: %q vs %q", first, second)
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 inner call, got %d", inner.calls)
	}

	// A different prompt misses the cache
	if _, err := client.Request(ctx, "system", "other user"); err != nil {
		t.Fatalf("Third request failed: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("Expected 2 inner calls, got %d", inner.calls)
	}
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	inner := &countingClient{err: errors.New("rate limited")}
	memory := cache.NewMemoryCache(time.Hour, time.Hour)
	client := Cached(inner, memory, "gpt-4o-mini", time.Hour)

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.Request(ctx, "system", "user"); err == nil {
			t.Fatal("Expected error, got none")
		}
	}

	if inner.calls != 2 {
		t.Errorf("Expected 2 inner calls (errors must not be cached), got %d", inner.calls)
	}
}

func TestCached_NilCachePassthrough(t *testing.T) {
	inner := &countingClient{response: "ok"}
	if client := Cached(inner, nil, "", time.Hour); client != Client(inner) {
		t.Error("Expected nil cache to return the client unchanged")
	}
}

func TestThrottled_ZeroRateDisables(t *testing.T) {
	inner := &countingClient{response: "ok"}
	if client := Throttled(inner, 0, 0); client != Client(inner) {
		t.Error("Expected zero rate to return the client unchanged")
	}
}

func TestThrottled_PassesThrough(t *testing.T) {
	inner := &countingClient{response: "ok"}
	client := Throttled(inner, 100, 10)

	response, err := client.Request(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if response != "ok" {
		t.Errorf("Unexpected response: %q", response)
	}
	if client.Name() != "counting" {
		t.Errorf("Expected delegated name, got %q", client.Name())
	}
}

func TestLogged_WritesCallLog(t *testing.T) {
	inner := &countingClient{response: "ok"}
	var out bytes.Buffer
	client := Logged(inner, &out)

	if _, err := client.Request(context.Background(), "system", "user"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	log := out.String()
	if !strings.Contains(log, "LLM call #1") {
		t.Errorf("Expected call number in log, got: %s", log)
	}
	if !strings.Contains(log, "counting") {
		t.Errorf("Expected provider name in log, got: %s", log)
	}
}
