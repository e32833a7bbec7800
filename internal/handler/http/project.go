package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/project"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ProjectHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)
	Unassign(w http.ResponseWriter, r *http.Request)
}

type projectHandlerImpl struct {
	projectService project.ProjectService
}

func NewProjectHandler(projectService project.ProjectService) ProjectHandler {
	return &projectHandlerImpl{projectService: projectService}
}

// List implements ProjectHandler.
func (h *projectHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	filter := project.ProjectFilter{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
	if s := queryString(r, "status"); s != nil {
		status, err := project.ParseStatus(*s)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.Status = &status
	}

	result, err := h.projectService.List(r.Context(), v, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements ProjectHandler.
func (h *projectHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.projectService.Get(r.Context(), v, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements ProjectHandler.
func (h *projectHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	var req project.CreateProjectRequest
	if !decodeJSON(w, r, &req, "CreateProject") {
		return
	}

	result, err := h.projectService.Create(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Project created successfully", result)
}

// Update implements ProjectHandler.
func (h *projectHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	var req project.UpdateProjectRequest
	if !decodeJSON(w, r, &req, "UpdateProject") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.projectService.Update(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Project updated successfully", result)
}

// Delete implements ProjectHandler.
func (h *projectHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), v, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Project deleted successfully", nil)
}

// Assign implements ProjectHandler.
func (h *projectHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	var req project.AssignmentRequest
	if !decodeJSON(w, r, &req, "AssignProject") {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.projectService.Assign(r.Context(), v, chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User assigned to project", result)
}

// Unassign implements ProjectHandler.
func (h *projectHandlerImpl) Unassign(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.projectService.Unassign(r.Context(), v, chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User removed from project", result)
}
