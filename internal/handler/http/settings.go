package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/settings"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
)

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	UpdateGeneral(w http.ResponseWriter, r *http.Request)
	UpdateAttendance(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

// Get implements SettingsHandler.
func (h *settingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateGeneral implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateGeneral(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateGeneralRequest
	if !decodeJSON(w, r, &req, "UpdateGeneralSettings") {
		return
	}

	result, err := h.settingsService.UpdateGeneral(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated successfully", result)
}

// UpdateAttendance implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateAttendanceRequest
	if !decodeJSON(w, r, &req, "UpdateAttendanceSettings") {
		return
	}

	result, err := h.settingsService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance settings updated successfully", result)
}
