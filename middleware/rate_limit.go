package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Counter is the shared request counter behind the rate limiter. Increment
// bumps the counter for key within the current window and returns the new
// count. The in-memory implementation below only enforces limits per
// instance; a multi-instance deployment must inject an implementation
// backed by a shared store.
type Counter interface {
	Increment(key string, window time.Duration) int
}

type memoryCounter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count int
	reset time.Time
}

func NewMemoryCounter() Counter {
	return &memoryCounter{buckets: make(map[string]*bucket)}
}

func (m *memoryCounter) Increment(key string, window time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	b, ok := m.buckets[key]
	if !ok || now.After(b.reset) {
		b = &bucket{reset: now.Add(window)}
		m.buckets[key] = b
	}
	b.count++
	return b.count
}

// RateLimit rejects a client IP once it exceeds limit requests per window.
func RateLimit(counter Counter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter.Increment(c.ClientIP(), window) > limit {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
