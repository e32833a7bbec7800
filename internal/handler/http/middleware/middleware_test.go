package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/idempotency"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/metrics"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAuthorizer map[access.Role]bool

func (s staticAuthorizer) Allowed(role access.Role, _ access.Permission) bool {
	return s[role]
}

func okHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestRequirePermission(t *testing.T) {
	h := RequirePermission(staticAuthorizer{access.RoleAdmin: true}, access.PermissionCompanyCreate)(okHandler(http.StatusOK, `{}`))

	t.Run("no viewer", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("denied role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithViewer(req.Context(), access.Viewer{UserID: "u1", Role: access.RoleSupervisor}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("allowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithViewer(req.Context(), access.Viewer{UserID: "u1", Role: access.RoleAdmin}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestDeviceAuth_ResolvesDevice(t *testing.T) {
	var seen string
	h := DeviceAuth(map[string]string{"lobby": "k-lobby", "gate": "k-gate"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = DeviceFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DeviceKeyHeader, "k-gate")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "gate", seen)
}

func TestDeviceRateLimiter_PerDevice(t *testing.T) {
	limiter := NewDeviceRateLimiter(0.001, 1, metrics.New())
	h := DeviceAuth(map[string]string{"a": "ka", "b": "kb"})(limiter.Handler(okHandler(http.StatusOK, `{}`)))

	send := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(DeviceKeyHeader, key)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("ka"))
	assert.Equal(t, http.StatusTooManyRequests, send("ka"))
	assert.Equal(t, http.StatusOK, send("kb"))
}

func TestIdempotency_StoresFirstResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := idempotency.NewStore(rdb, time.Hour)
	key := idempotency.Key("", "/submit", "scan-1")

	body := `{"success":true}`
	payload, err := json.Marshal(idempotency.Response{Status: http.StatusCreated, ContentType: "application/json", Body: []byte(body)})
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSetNX(key+":lock", "locked", idempotency.DefaultLockTTL).SetVal(true)
	mock.ExpectSet(key, string(payload), time.Hour).SetVal("OK")
	mock.ExpectDel(key + ":lock").SetVal(1)

	h := Idempotency(store, nil)(okHandler(http.StatusCreated, body))
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(IdempotencyKeyHeader, "scan-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, body, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_FailureReleasesLock(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := idempotency.NewStore(rdb, time.Hour)
	key := idempotency.Key("", "/submit", "scan-2")

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSetNX(key+":lock", "locked", idempotency.DefaultLockTTL).SetVal(true)
	mock.ExpectDel(key + ":lock").SetVal(1)

	h := Idempotency(store, nil)(okHandler(http.StatusNotFound, `{"success":false}`))
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(IdempotencyKeyHeader, "scan-2")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_InFlightConflicts(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := idempotency.NewStore(rdb, time.Hour)
	key := idempotency.Key("", "/submit", "scan-3")

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSetNX(key+":lock", "locked", idempotency.DefaultLockTTL).SetVal(false)

	called := false
	h := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(IdempotencyKeyHeader, "scan-3")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_SkipsWithoutKey(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	h := Idempotency(idempotency.NewStore(rdb, time.Hour), nil)(okHandler(http.StatusCreated, `{}`))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
