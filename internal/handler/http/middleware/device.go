package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
)

const DeviceKeyHeader = "X-Device-Key"

type deviceKey struct{}

// DeviceFromContext returns the terminal device id placed by DeviceAuth.
func DeviceFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(deviceKey{}).(string)
	return id, ok && id != ""
}

// DeviceAuth authenticates a biometric terminal by its shared key. keys maps
// device id to key.
func DeviceAuth(keys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(DeviceKeyHeader)
			if presented == "" {
				response.Unauthorized(w, "Device key is required")
				return
			}

			deviceID := ""
			for id, key := range keys {
				if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
					deviceID = id
					break
				}
			}
			if deviceID == "" {
				slog.Warn("terminal rejected", "remote_addr", r.RemoteAddr)
				response.Unauthorized(w, "Invalid device key")
				return
			}

			ctx := context.WithValue(r.Context(), deviceKey{}, deviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
