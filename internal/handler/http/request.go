package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func decodeBody(r *http.Request, dst interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

// viewer returns the authenticated caller or writes a 401.
func viewer(w http.ResponseWriter, r *http.Request) (access.Viewer, bool) {
	v, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
	}
	return v, ok
}

// queryString returns a trimmed query value, or nil when absent or blank.
func queryString(r *http.Request, name string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil
	}
	return &v
}

// queryInt returns a positive integer query value, or 0 when absent or malformed.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// queryDate parses ?name=YYYY-MM-DD. Absent means the zero time, which the
// attendance service reads as today.
func queryDate(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := queryString(r, name)
	if raw == nil {
		return time.Time{}, true
	}
	d, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		response.BadRequest(w, name+" must be in YYYY-MM-DD format", map[string]string{name: *raw})
		return time.Time{}, false
	}
	return d, true
}
