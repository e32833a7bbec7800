package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/fingerprint"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// TerminalHandler serves the desktop biometric terminal. Callers are
// authenticated by device key, never by a user token.
type TerminalHandler interface {
	NextEmployeeID(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
	UpdateTemplate(w http.ResponseWriter, r *http.Request)
	Templates(w http.ResponseWriter, r *http.Request)
	SubmitAttendance(w http.ResponseWriter, r *http.Request)
	LastAttendance(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type terminalHandlerImpl struct {
	userService        user.UserService
	fingerprintService fingerprint.FingerprintService
	attendanceService  attendance.AttendanceService
}

func NewTerminalHandler(userService user.UserService, fingerprintService fingerprint.FingerprintService, attendanceService attendance.AttendanceService) TerminalHandler {
	return &terminalHandlerImpl{
		userService:        userService,
		fingerprintService: fingerprintService,
		attendanceService:  attendanceService,
	}
}

// NextEmployeeID implements TerminalHandler.
func (h *terminalHandlerImpl) NextEmployeeID(w http.ResponseWriter, r *http.Request) {
	id, err := h.userService.NextEmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{"employee_id": id})
}

// ListUsers implements TerminalHandler.
func (h *terminalHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListActive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, users)
}

// GetUser implements TerminalHandler.
func (h *terminalHandlerImpl) GetUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.GetByEmployeeID(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateUser implements TerminalHandler.
func (h *terminalHandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.TerminalCreateUserRequest
	if !decodeJSON(w, r, &req, "TerminalCreateUser") {
		return
	}

	result, err := h.userService.CreateFromTerminal(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created successfully", result)
}

// UpdateTemplate implements TerminalHandler.
func (h *terminalHandlerImpl) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req fingerprint.UpdateTemplateRequest
	if !decodeJSON(w, r, &req, "UpdateTemplate") {
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")
	if req.DeviceID == "" {
		req.DeviceID, _ = middleware.DeviceFromContext(r.Context())
	}

	result, err := h.fingerprintService.UpdateTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Fingerprint template updated", result)
}

// Templates implements TerminalHandler.
func (h *terminalHandlerImpl) Templates(w http.ResponseWriter, r *http.Request) {
	result, err := h.fingerprintService.Templates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SubmitAttendance implements TerminalHandler.
func (h *terminalHandlerImpl) SubmitAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordEventRequest
	if !decodeJSON(w, r, &req, "SubmitAttendance") {
		return
	}
	if req.DeviceID == "" {
		req.DeviceID, _ = middleware.DeviceFromContext(r.Context())
	}

	result, err := h.attendanceService.RecordEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded successfully", result)
}

// LastAttendance implements TerminalHandler.
func (h *terminalHandlerImpl) LastAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.LastEvent(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Health implements TerminalHandler.
func (h *terminalHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	device, _ := middleware.DeviceFromContext(r.Context())
	response.Success(w, map[string]string{
		"status":    "healthy",
		"endpoint":  "terminal",
		"device_id": device,
	})
}
