package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/advance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryAdvanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
}

type salaryAdvanceHandlerImpl struct {
	advanceService advance.SalaryAdvanceService
}

func NewSalaryAdvanceHandler(advanceService advance.SalaryAdvanceService) SalaryAdvanceHandler {
	return &salaryAdvanceHandlerImpl{advanceService: advanceService}
}

// List implements SalaryAdvanceHandler.
func (h *salaryAdvanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	filter := advance.AdvanceFilter{
		UserID: queryString(r, "user_id"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
	if s := queryString(r, "status"); s != nil {
		status, err := approval.ParseStatus(*s)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.Status = &status
	}

	result, err := h.advanceService.List(r.Context(), v, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements SalaryAdvanceHandler.
func (h *salaryAdvanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.advanceService.Get(r.Context(), v, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements SalaryAdvanceHandler.
func (h *salaryAdvanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	var req advance.CreateAdvanceRequest
	if !decodeJSON(w, r, &req, "CreateSalaryAdvance") {
		return
	}

	result, err := h.advanceService.Create(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary advance request created successfully", result)
}

// Approve implements SalaryAdvanceHandler.
func (h *salaryAdvanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	req := advance.ReviewAdvanceRequest{ID: chi.URLParam(r, "id"), Comment: reviewComment(r)}
	result, err := h.advanceService.Approve(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary advance approved successfully", result)
}

// Reject implements SalaryAdvanceHandler.
func (h *salaryAdvanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	req := advance.ReviewAdvanceRequest{ID: chi.URLParam(r, "id"), Comment: reviewComment(r)}
	result, err := h.advanceService.Reject(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary advance rejected successfully", result)
}

// Delete implements SalaryAdvanceHandler.
func (h *salaryAdvanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	if err := h.advanceService.Delete(r.Context(), v, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary advance request deleted successfully", nil)
}

// Statistics implements SalaryAdvanceHandler.
func (h *salaryAdvanceHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.advanceService.Statistics(r.Context(), v)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
