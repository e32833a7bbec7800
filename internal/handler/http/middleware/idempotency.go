package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/idempotency"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/metrics"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyStore is the subset of *idempotency.Store the middleware needs.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (idempotency.Response, bool, error)
	Acquire(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, resp idempotency.Response) error
	Release(ctx context.Context, key string) error
}

// Idempotency replays the stored response of a POST that repeats an
// Idempotency-Key. Only 2xx responses are stored; failures release the key so
// the terminal can retry. Requests without the header pass through.
func Idempotency(store IdempotencyStore, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			caller, _ := DeviceFromContext(r.Context())
			if v, ok := ViewerFromContext(r.Context()); ok {
				caller = v.UserID
			}
			cacheKey := idempotency.Key(caller, r.URL.Path, key)
			ctx := r.Context()

			cached, found, err := store.Get(ctx, cacheKey)
			if err != nil {
				slog.Error("idempotency lookup failed", "error", err)
				response.ServiceUnavailable(w, "Idempotency store unavailable")
				return
			}
			if found {
				m.IdempotentReplay()
				w.Header().Set("Content-Type", cached.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(cached.Status)
				_, _ = w.Write(cached.Body)
				return
			}

			acquired, err := store.Acquire(ctx, cacheKey)
			if err != nil {
				slog.Error("idempotency lock failed", "error", err)
				response.ServiceUnavailable(w, "Idempotency store unavailable")
				return
			}
			if !acquired {
				response.HandleError(w, idempotency.ErrInProgress)
				return
			}

			var body bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			// The request context may already be cancelled; the result must still be recorded.
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= 200 && status < 300 {
				err = store.Save(saveCtx, cacheKey, idempotency.Response{
					Status:      status,
					ContentType: ww.Header().Get("Content-Type"),
					Body:        body.Bytes(),
				})
			} else {
				err = store.Release(saveCtx, cacheKey)
			}
			if err != nil {
				slog.Error("failed to finish idempotent request", "key", cacheKey, "error", err)
			}
		})
	}
}
