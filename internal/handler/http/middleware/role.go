package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
)

// Authorizer decides role permissions. *authz.Authorizer satisfies it.
type Authorizer interface {
	Allowed(role access.Role, p access.Permission) bool
}

// RequirePermission checks if the caller's role holds permission
func RequirePermission(authorizer Authorizer, permission access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := ViewerFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			if !authorizer.Allowed(viewer.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, viewer.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
