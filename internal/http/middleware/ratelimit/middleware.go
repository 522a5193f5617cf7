package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	httpCtx "github.com/bornholm/folio/internal/http/context"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Middleware limits the request rate of each viewer. Identified viewers are
// tracked by id, the others by remote address.
func Middleware(trustHeaders bool, interval time.Duration, maxBurst int, cacheSize int, ttl time.Duration) func(http.Handler) http.Handler {
	cache := expirable.NewLRU[string, *rate.Limiter](cacheSize, nil, ttl)

	getLimiter := func(key string) *rate.Limiter {
		limiter, exists := cache.Get(key)
		if !exists {
			limiter = rate.NewLimiter(rate.Every(interval), maxBurst)
			cache.Add(key, limiter)
		}

		return limiter
	}

	getRemoteAddr := func(r *http.Request) string {
		if trustHeaders {
			xff := r.Header.Get("X-Forwarded-For")
			if xff != "" {
				ips := strings.Split(xff, ",")
				if len(ips) > 0 {
					return strings.TrimSpace(ips[0])
				}
			}

			xri := r.Header.Get("X-Real-Ip")
			if xri != "" {
				return xri
			}
		}

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}

		return ip
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := "addr:" + getRemoteAddr(r)
			if user := httpCtx.User(ctx); !model.IsAnonymous(user) {
				key = "user:" + string(user.ID())
			}

			limiter := getLimiter(key)

			reservation := limiter.Reserve()
			if !reservation.OK() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()

				slog.WarnContext(ctx, "request throttled", slog.String("key", key), slog.Duration("delay", delay))

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			writeHeaders(w, limiter, interval, maxBurst)

			next.ServeHTTP(w, r)
		})
	}
}

// writeHeaders exposes the remaining burst and the time at which
// it will be fully replenished
func writeHeaders(w http.ResponseWriter, limiter *rate.Limiter, interval time.Duration, maxBurst int) {
	tokens := limiter.Tokens()

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(maxBurst))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(int(math.Floor(tokens)), 0)))

	resetAt := time.Now()
	if missing := float64(maxBurst) - tokens; missing > 0 {
		resetAt = resetAt.Add(time.Duration(missing * float64(interval)))
	}

	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}
