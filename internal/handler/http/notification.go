package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler defines the notification handler interface
type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	MarkAllAsRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService notification.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService notification.NotificationService) NotificationHandler {
	return &notificationHandlerImpl{
		notifService: notifService,
	}
}

// List handles GET /notifications
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread_only"))
	req := notification.ListNotificationsRequest{
		UnreadOnly: unreadOnly,
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	result, err := h.notifService.List(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, response.PageMeta(result.Page, result.Limit, result.Total))
}

// UnreadCount handles GET /notifications/unread-count
func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	count, err := h.notifService.UnreadCount(r.Context(), v)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"unread_count": count})
}

// MarkAsRead handles PUT /notifications/{id}/read
func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	if err := h.notifService.MarkRead(r.Context(), v, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked as read", nil)
}

// MarkAllAsRead handles PUT /notifications/read-all
func (h *notificationHandlerImpl) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	count, err := h.notifService.MarkAllRead(r.Context(), v)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", map[string]int64{"updated": count})
}

// Delete handles DELETE /notifications/{id}
func (h *notificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	if err := h.notifService.Delete(r.Context(), v, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification deleted", nil)
}
