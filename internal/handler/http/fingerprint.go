package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/fingerprint"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type FingerprintHandler interface {
	Enroll(w http.ResponseWriter, r *http.Request)
	Check(w http.ResponseWriter, r *http.Request)
	Templates(w http.ResponseWriter, r *http.Request)
	Remove(w http.ResponseWriter, r *http.Request)
	Pending(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
}

type fingerprintHandlerImpl struct {
	fingerprintService fingerprint.FingerprintService
}

func NewFingerprintHandler(fingerprintService fingerprint.FingerprintService) FingerprintHandler {
	return &fingerprintHandlerImpl{fingerprintService: fingerprintService}
}

// Enroll implements FingerprintHandler.
func (h *fingerprintHandlerImpl) Enroll(w http.ResponseWriter, r *http.Request) {
	var req fingerprint.EnrollRequest
	if !decodeJSON(w, r, &req, "EnrollFingerprint") {
		return
	}

	result, err := h.fingerprintService.Enroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Fingerprint enrolled successfully", result)
}

// Check implements FingerprintHandler.
func (h *fingerprintHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	result, err := h.fingerprintService.Check(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Templates implements FingerprintHandler.
func (h *fingerprintHandlerImpl) Templates(w http.ResponseWriter, r *http.Request) {
	result, err := h.fingerprintService.Templates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Remove implements FingerprintHandler.
func (h *fingerprintHandlerImpl) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.fingerprintService.Remove(r.Context(), chi.URLParam(r, "employeeID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Fingerprint removed successfully", nil)
}

// Pending implements FingerprintHandler.
func (h *fingerprintHandlerImpl) Pending(w http.ResponseWriter, r *http.Request) {
	result, err := h.fingerprintService.Pending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Confirm implements FingerprintHandler.
func (h *fingerprintHandlerImpl) Confirm(w http.ResponseWriter, r *http.Request) {
	var req fingerprint.ConfirmRequest
	if !decodeJSON(w, r, &req, "ConfirmFingerprint") {
		return
	}

	result, err := h.fingerprintService.Confirm(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Fingerprint enrollment confirmed", result)
}
