package server

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"sge-admin/internal/apiserver/httpx"
	"sge-admin/internal/shared/apperr"
	"sge-admin/pkg/logging"
)

const (
	// limiterIdleTTL 超过该时长未出现的客户端会被清理
	limiterIdleTTL = 10 * time.Minute
	// limiterSweepSize 条目数超过该值时触发清理
	limiterSweepSize = 4096
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter 按客户端 IP 的令牌桶限流
type ipRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time

	metrics *Metrics
	logger  *logging.Logger
}

func newIPRateLimiter(perSecond float64, burst int, metrics *Metrics, logger *logging.Logger) *ipRateLimiter {
	return &ipRateLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
		metrics: metrics,
		logger:  logger,
	}
}

// reserve 取一个令牌；失败时返回建议的等待时间
func (l *ipRateLimiter) reserve(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.entries) > limiterSweepSize {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.entries, k)
			}
		}
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastSeen = now

	if e.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, delay
}

// Middleware 超出速率时返回 429
func (l *ipRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		ok, delay := l.reserve(ip)
		if !ok {
			if l.metrics != nil {
				l.metrics.RateLimitedTotal.Inc()
			}
			l.logger.WithContext(r.Context()).Warn("login rate limited", "client_ip", ip)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			httpx.WriteError(w, r, l.logger, apperr.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
