package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SecurityHeaders adds response headers for a JSON-only API. Calculation
// results depend on live rate tables, so responses are never cached.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// visitorIdleTTL は最後のリクエストからこの時間が経った client を忘れる
const visitorIdleTTL = 3 * time.Minute

// RateLimiter は 1 つのルート群（読み取り・計算・スナップショット取得など）に
// 割り当てる per-client のトークンバケット。perMinute 個まで連続で受け付け、
// 以降は 1 分あたり perMinute 個の速度で回復する。
type RateLimiter struct {
	budget    string
	perMinute int
	// trustedProxies は X-Forwarded-For の右端から数えた信頼できるホップ数
	trustedProxies int

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates the limiter for one budget. perMinute <= 0 disables
// it. Idle clients are evicted until ctx is done. One reverse proxy (nginx) is
// assumed in front of the API.
func NewRateLimiter(ctx context.Context, budget string, perMinute int) *RateLimiter {
	rl := &RateLimiter{
		budget:         budget,
		perMinute:      perMinute,
		trustedProxies: 1,
		visitors:       make(map[string]*visitor),
	}
	if perMinute > 0 {
		go rl.evictLoop(ctx)
	}
	return rl
}

func (rl *RateLimiter) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(rl.visitors, key)
		}
	}
}

func (rl *RateLimiter) limiterFor(client string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, ok := rl.visitors[client]
	if !ok {
		every := rate.Every(time.Minute / time.Duration(rl.perMinute))
		v = &visitor{limiter: rate.NewLimiter(every, rl.perMinute)}
		rl.visitors[client] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Limit wraps the routes that share this budget.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if rl.perMinute <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r, rl.trustedProxies)
		now := time.Now()

		res := rl.limiterFor(client, now).ReserveN(now, 1)
		if wait := res.DelayFrom(now); wait > 0 {
			res.CancelAt(now)
			slog.Warn("rate limited",
				"budget", rl.budget,
				"client_ip", client,
				"path", r.URL.Path,
				"request_id", RequestIDFromContext(r.Context()),
			)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":  "rate_limited",
				"budget": rl.budget,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP reads the hop our own proxy appended to X-Forwarded-For; entries
// left of it are client supplied and ignored.
func clientIP(r *http.Request, trustedProxies int) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && trustedProxies > 0 {
		hops := strings.Split(xff, ",")
		if i := len(hops) - trustedProxies; i >= 0 {
			return strings.TrimSpace(hops[i])
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
