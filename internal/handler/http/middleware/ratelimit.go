package middleware

import (
	"net/http"
	"sync"

	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/metrics"
	"golang.org/x/time/rate"
)

// DeviceRateLimiter keeps one token bucket per terminal device.
type DeviceRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
	metrics  *metrics.Metrics
}

// NewDeviceRateLimiter allows r requests per second with bursts of b per device.
func NewDeviceRateLimiter(r rate.Limit, b int, m *metrics.Metrics) *DeviceRateLimiter {
	return &DeviceRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
		metrics:  m,
	}
}

func (d *DeviceRateLimiter) limiter(device string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[device]
	if !ok {
		l = rate.NewLimiter(d.r, d.b)
		d.limiters[device] = l
	}
	return l
}

// Handler must run after DeviceAuth. Unauthenticated requests share one bucket.
func (d *DeviceRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		device, _ := DeviceFromContext(r.Context())
		if !d.limiter(device).Allow() {
			d.metrics.RateLimited(device)
			response.TooManyRequests(w, "Too many requests from this device")
			return
		}
		next.ServeHTTP(w, r)
	})
}
