package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/fingerprint"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/idempotency"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestHandleError_StatusMapping(t *testing.T) {
	var fieldErrs validator.ValidationErrors
	fieldErrs.Add("email", "email is required")

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fieldErrs, http.StatusUnprocessableEntity},
		{"time format", fmt.Errorf("%q: %w", "7pm", timewindow.ErrInvalidTimeFormat), http.StatusBadRequest},
		{"invalid range", attendance.ErrInvalidRange, http.StatusBadRequest},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"revoked", auth.ErrRefreshTokenRevoked, http.StatusUnauthorized},
		{"scope denial", fmt.Errorf("failed to get leave: %w", access.ErrUnauthorized), http.StatusForbidden},
		{"user missing", user.ErrUserNotFound, http.StatusNotFound},
		{"leave missing", leave.ErrLeaveRequestNotFound, http.StatusNotFound},
		{"already processed", approval.ErrAlreadyProcessed, http.StatusConflict},
		{"not pending", approval.ErrNotPending, http.StatusConflict},
		{"email taken", user.ErrUserEmailExists, http.StatusConflict},
		{"already enrolled", fingerprint.ErrAlreadyEnrolled, http.StatusConflict},
		{"in flight", idempotency.ErrInProgress, http.StatusConflict},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			HandleError(rr, c.err)
			assert.Equal(t, c.want, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestHandleError_HidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleError(rr, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password authentication")
}

func TestPageMeta(t *testing.T) {
	m := PageMeta(2, 20, 41)
	assert.Equal(t, 3, m.TotalPages)
	assert.Equal(t, int64(41), m.TotalItems)

	assert.Equal(t, 0, PageMeta(1, 0, 10).TotalPages)
}
