package middleware

import (
	"sync"

	"golang.org/x/time/rate"
)

var (
	limiterOnce     sync.Once
	limiterInstance *IPRateLimiter

	// startup defaults, overridden by InitRateLimiter before serving
	defaultRate  = rate.Limit(2)
	defaultBurst = 5
)

type IPRateLimiter struct {
	ips       map[string]*rate.Limiter
	mu        sync.RWMutex
	rateLimit rate.Limit
	burstRate int
}

// InitRateLimiter sets the per-IP limits from config. Called once from main
// before the server starts; later calls are no-ops.
func InitRateLimiter(requestsPerSecond int, burst int) {
	limiterOnce.Do(func() {
		limiterInstance = NewIPRateLimiter(rate.Limit(requestsPerSecond), burst)
	})
}

func getLimiter() *IPRateLimiter {
	limiterOnce.Do(func() {
		limiterInstance = NewIPRateLimiter(defaultRate, defaultBurst)
	})
	return limiterInstance
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{ips: make(map[string]*rate.Limiter), rateLimit: r, burstRate: b}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()
	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.rateLimit, i.burstRate)
		i.ips[ip] = limiter
	}
	return limiter
}

//TODO: when the users grow
// I must offload this key-value to redis
