package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pantrypal/pantrypal/pkg/ctx"
	"github.com/pantrypal/pantrypal/pkg/response"
)

// bucket tracks a fixed-window request count for one IP.
type bucket struct {
	count   int
	resetAt time.Time
}

// RateLimiter allows max requests per window per client IP.
type RateLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop chan struct{}
	once sync.Once
}

// NewRateLimiter starts a janitor that evicts expired buckets every window.
// Call Stop when the server shuts down.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		max:     max,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[ip]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(rl.window)}
		rl.buckets[ip] = b
	}
	b.count++
	return b.count <= rl.max
}

// Middleware rejects over-limit requests with a 429 envelope.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ctx.ClientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			response.TooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evict()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evict() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, b := range rl.buckets {
		if now.After(b.resetAt) {
			delete(rl.buckets, ip)
		}
	}
}
