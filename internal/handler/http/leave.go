package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// List implements LeaveHandler.
func (l *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	filter := leave.LeaveFilter{
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
	if t := queryString(r, "leave_type"); t != nil {
		leaveType, err := leave.ParseType(*t)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.Type = &leaveType
	}

	result, err := l.leaveService.List(r.Context(), v, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements LeaveHandler.
func (l *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.Get(r.Context(), v, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements LeaveHandler.
func (l *LeaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequest
	if !decodeJSON(w, r, &req, "CreateLeave") {
		return
	}

	result, err := l.leaveService.Create(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", result)
}

// reviewComment decodes the optional reviewer comment. An empty body is allowed.
func reviewComment(r *http.Request) *string {
	var body struct {
		Comment *string `json:"comment"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		_ = decodeBody(r, &body)
	}
	return body.Comment
}

// Approve implements LeaveHandler.
func (l *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	req := leave.ReviewLeaveRequest{ID: chi.URLParam(r, "id"), Comment: reviewComment(r)}
	result, err := l.leaveService.Approve(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", result)
}

// Reject implements LeaveHandler.
func (l *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	req := leave.ReviewLeaveRequest{ID: chi.URLParam(r, "id"), Comment: reviewComment(r)}
	result, err := l.leaveService.Reject(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", result)
}

// Delete implements LeaveHandler.
func (l *LeaveHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	if err := l.leaveService.Delete(r.Context(), v, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted successfully", nil)
}

// Statistics implements LeaveHandler.
func (l *LeaveHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.Statistics(r.Context(), v)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
