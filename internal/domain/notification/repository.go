package notification

import (
	"context"
	"time"
)

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	CreateBatch(ctx context.Context, ns []Notification) error
	GetByID(ctx context.Context, id string) (Notification, error)

	// List returns the page of notifications matching f, newest first
	List(ctx context.Context, f Filter, query ListNotificationsRequest) ([]Notification, int64, error)
	CountUnread(ctx context.Context, f Filter) (int64, error)

	MarkRead(ctx context.Context, id string, at time.Time) error
	// MarkAllRead marks every unread notification matching f and returns how many changed
	MarkAllRead(ctx context.Context, f Filter, at time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}
