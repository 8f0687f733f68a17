package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/islmaice/connect/internal/apperrors"
	"github.com/islmaice/connect/internal/clock"
	"github.com/islmaice/connect/internal/logger"
	"github.com/islmaice/connect/internal/metrics"
	"golang.org/x/time/rate"
)

const idleLimiterTTL = 10 * time.Minute

// UserRateLimiter keeps one token bucket per authenticated user.
type UserRateLimiter struct {
	name    string
	mu      sync.Mutex
	users   map[int64]*limiterEntry
	limit   rate.Limit
	burst   int
	clock   clock.Clock
	stop    chan struct{}
	stopped sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewUserRateLimiter allows perMinute events per user with the given burst,
// refilling buckets by c. Idle buckets are swept every minute until Stop is
// called.
func NewUserRateLimiter(name string, perMinute float64, burst int, c clock.Clock) *UserRateLimiter {
	rl := &UserRateLimiter{
		name:  name,
		users: make(map[int64]*limiterEntry),
		limit: rate.Limit(perMinute / 60.0),
		burst: burst,
		clock: c,
		stop:  make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *UserRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep(rl.clock.Now())
		}
	}
}

func (rl *UserRateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, entry := range rl.users {
		if now.Sub(entry.lastSeen) > idleLimiterTTL {
			delete(rl.users, id)
		}
	}
}

func (rl *UserRateLimiter) Stop() {
	rl.stopped.Do(func() { close(rl.stop) })
}

// Allow reports whether userID may proceed now.
func (rl *UserRateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	entry, ok := rl.users[userID]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.users[userID] = entry
	}
	now := rl.clock.Now()
	entry.lastSeen = now
	rl.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the caller's budget with 429. It must run
// after AuthMiddleware; unauthenticated requests pass through untouched.
func (rl *UserRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if ok && !rl.Allow(userID) {
			metrics.RateLimited.WithLabelValues(rl.name).Inc()
			logger.Warn().
				Int64("user_id", userID).
				Str("limiter", rl.name).
				Str("path", r.URL.Path).
				Msg("rate limit exceeded")
			apperrors.Write(w, apperrors.ErrRateLimit)
			return
		}
		next.ServeHTTP(w, r)
	})
}
