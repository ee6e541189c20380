package handlers

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles expensive endpoints with a shared token bucket
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows perMinute requests with the given burst.
// perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		return &RateLimiter{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

// Wrap rejects requests with 429 once the bucket is empty
func (rl *RateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	if rl.limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		reservation := rl.limiter.Reserve()
		if !reservation.OK() {
			WriteError(w, http.StatusTooManyRequests, "Export rate limit exceeded")
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			WriteError(w, http.StatusTooManyRequests, "Export rate limit exceeded")
			return
		}
		next(w, r)
	}
}
