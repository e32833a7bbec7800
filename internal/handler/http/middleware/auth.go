package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type viewerKey struct{}

// WithViewer returns a copy of ctx carrying v.
func WithViewer(ctx context.Context, v access.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFromContext returns the authenticated caller placed by AuthRequired.
func ViewerFromContext(ctx context.Context) (access.Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(access.Viewer)
	return v, ok
}

// AuthRequired rejects requests without a valid access token and stores the
// caller's viewer in the request context. It must run after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), claims.Viewer())))
		}
		return http.HandlerFunc(hfn)
	}
}
