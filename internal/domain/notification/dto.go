package notification

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

// CreateNotificationRequest is submitted by other services. Set UserID for a
// personal notification or TargetRoles (and usually CompanyID) for a broadcast.
type CreateNotificationRequest struct {
	UserID      *string
	TargetRoles []access.Role
	CompanyID   *string
	Kind        Kind
	Title       string
	Message     string
	RelatedID   *string
}

func (r CreateNotificationRequest) Validate() error {
	if (r.UserID == nil || *r.UserID == "") && len(r.TargetRoles) == 0 {
		return ErrRecipientRequired
	}
	return nil
}

// Personal builds a request addressed to one user.
func Personal(userID string, kind Kind, title, message string, relatedID string) CreateNotificationRequest {
	return CreateNotificationRequest{
		UserID:    &userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		RelatedID: optional(relatedID),
	}
}

// Broadcast builds a request addressed to roles within a company.
func Broadcast(companyID string, roles []access.Role, kind Kind, title, message string, relatedID string) CreateNotificationRequest {
	return CreateNotificationRequest{
		TargetRoles: roles,
		CompanyID:   optional(companyID),
		Kind:        kind,
		Title:       title,
		Message:     message,
		RelatedID:   optional(relatedID),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type ListNotificationsRequest struct {
	UnreadOnly bool
	Page       int
	Limit      int
}

func (r *ListNotificationsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 50
	}
}

type NotificationResponse struct {
	ID          string     `json:"id"`
	UserID      *string    `json:"user_id,omitempty"`
	TargetRoles []string   `json:"target_roles,omitempty"`
	CompanyID   *string    `json:"company_id,omitempty"`
	Kind        Kind       `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	RelatedID   *string    `json:"related_id,omitempty"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToResponse(n Notification) NotificationResponse {
	roles := make([]string, 0, len(n.TargetRoles))
	for _, r := range n.TargetRoles {
		roles = append(roles, string(r))
	}
	return NotificationResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		TargetRoles: roles,
		CompanyID:   n.CompanyID,
		Kind:        n.Kind,
		Title:       n.Title,
		Message:     n.Message,
		RelatedID:   n.RelatedID,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}
