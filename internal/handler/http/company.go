package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/company"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CompanyHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService: companyService,
	}
}

// Create implements CompanyHandler.
func (c *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	var req company.CreateCompanyRequest
	if !decodeJSON(w, r, &req, "CreateCompany") {
		return
	}

	result, err := c.companyService.Create(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created successfully", result)
}

// List implements CompanyHandler.
func (c *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	companies, err := c.companyService.List(r.Context(), v)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, companies)
}

// GetByID implements CompanyHandler.
func (c *CompanyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := c.companyService.Get(r.Context(), v, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements CompanyHandler.
func (c *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	var req company.UpdateCompanyRequest
	if !decodeJSON(w, r, &req, "UpdateCompany") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := c.companyService.Update(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company updated successfully", result)
}

// Delete implements CompanyHandler.
func (c *CompanyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	if err := c.companyService.Delete(r.Context(), v, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company deleted successfully", nil)
}
