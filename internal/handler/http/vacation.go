package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type VacationHandler interface {
	Balance(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	RecalculateAll(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type vacationHandlerImpl struct {
	balances leave.BalanceService
}

func NewVacationHandler(balances leave.BalanceService) VacationHandler {
	return &vacationHandlerImpl{balances: balances}
}

// Balance implements VacationHandler.
func (h *vacationHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.balances.Balance(r.Context(), v, chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Recalculate implements VacationHandler.
func (h *vacationHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.balances.RecalculateFor(r.Context(), v, chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Vacation balance recalculated", result)
}

// RecalculateAll implements VacationHandler.
func (h *vacationHandlerImpl) RecalculateAll(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.balances.RecalculateVisible(r.Context(), v)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Vacation balances recalculated", result)
}

// List implements VacationHandler.
func (h *vacationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.balances.ListBalances(r.Context(), v)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
