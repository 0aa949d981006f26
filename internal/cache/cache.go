package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for one LLM request. Provider, model, and
// both prompts participate so a prompt-template or model change never
// serves a stale response.
func Key(provider, model, systemPrompt, userPrompt string) string {
	payload := strings.Join([]string{provider, model, systemPrompt, userPrompt}, "\x00")
	hash := sha256.Sum256([]byte(payload))
	return "claimify:v1:" + hex.EncodeToString(hash[:])
}
