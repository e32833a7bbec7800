package notification

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

// Publisher queues notifications for delivery. Other services depend on this
// rather than on the full NotificationService.
type Publisher interface {
	Publish(ctx context.Context, req CreateNotificationRequest) error
}

type NotificationService interface {
	Publisher

	List(ctx context.Context, viewer access.Viewer, req ListNotificationsRequest) (NotificationListResponse, error)
	UnreadCount(ctx context.Context, viewer access.Viewer) (int64, error)
	MarkRead(ctx context.Context, viewer access.Viewer, id string) error
	MarkAllRead(ctx context.Context, viewer access.Viewer) (int64, error)
	Delete(ctx context.Context, viewer access.Viewer, id string) error

	// Stop flushes queued notifications and stops the workers
	Stop()
}
