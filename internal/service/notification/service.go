package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
)

// Config holds notification delivery settings
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 2 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.NotificationRepository
	config Config

	queue    chan notification.Notification
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService starts the background writers and returns the service.
func NewNotificationService(repo notification.NotificationRepository, cfg Config) notification.NotificationService {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		config: cfg,
		queue:  make(chan notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification workers started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval.String(),
	)
	return s
}

// worker batches queued notifications into bulk inserts
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("failed to insert notification batch", "worker", id, "count", len(batch), "error", err)
		} else {
			slog.Debug("notification batch inserted", "worker", id, "count", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case n := <-s.queue:
			batch = append(batch, n)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain what is already queued before exiting.
			for {
				select {
				case n := <-s.queue:
					batch = append(batch, n)
				default:
					flush()
					return
				}
			}
		}
	}
}

func newNotification(req notification.CreateNotificationRequest) notification.Notification {
	return notification.Notification{
		UserID:      req.UserID,
		TargetRoles: req.TargetRoles,
		CompanyID:   req.CompanyID,
		Title:       req.Title,
		Message:     req.Message,
		Kind:        req.Kind,
		RelatedID:   req.RelatedID,
		CreatedAt:   time.Now().UTC(),
	}
}

// Publish implements notification.Publisher.
// When the queue is full the notification is written synchronously.
func (s *service) Publish(ctx context.Context, req notification.CreateNotificationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	n := newNotification(req)

	select {
	case <-s.stopCh:
		return s.directInsert(ctx, n)
	default:
	}

	select {
	case s.queue <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return s.directInsert(ctx, n)
	}
}

func (s *service) directInsert(ctx context.Context, n notification.Notification) error {
	if _, err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// List implements notification.NotificationService.
func (s *service) List(ctx context.Context, viewer access.Viewer, req notification.ListNotificationsRequest) (notification.NotificationListResponse, error) {
	req.Normalize()
	filter := notification.VisibilityFilter(viewer)

	rows, total, err := s.repo.List(ctx, filter, req)
	if err != nil {
		return notification.NotificationListResponse{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, filter)
	if err != nil {
		return notification.NotificationListResponse{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, 0, len(rows))
	for _, n := range rows {
		responses = append(responses, notification.ToResponse(n))
	}

	return notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          req.Page,
		Limit:         req.Limit,
	}, nil
}

// UnreadCount implements notification.NotificationService.
func (s *service) UnreadCount(ctx context.Context, viewer access.Viewer) (int64, error) {
	count, err := s.repo.CountUnread(ctx, notification.VisibilityFilter(viewer))
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// mutable loads a notification and checks the viewer may change it. Rows the
// viewer cannot see are reported as not found.
func (s *service) mutable(ctx context.Context, viewer access.Viewer, id string) (notification.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notification.Notification{}, err
	}
	if !notification.IsVisible(n, viewer) {
		return notification.Notification{}, notification.ErrNotificationNotFound
	}
	if !notification.IsMutable(n, viewer) {
		return notification.Notification{}, access.ErrUnauthorized
	}
	return n, nil
}

// MarkRead implements notification.NotificationService.
func (s *service) MarkRead(ctx context.Context, viewer access.Viewer, id string) error {
	n, err := s.mutable(ctx, viewer, id)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	if err := s.repo.MarkRead(ctx, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead implements notification.NotificationService.
func (s *service) MarkAllRead(ctx context.Context, viewer access.Viewer) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, notification.VisibilityFilter(viewer), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	slog.Info("notifications marked read", "user_id", viewer.UserID, "count", n)
	return n, nil
}

// Delete implements notification.NotificationService.
func (s *service) Delete(ctx context.Context, viewer access.Viewer, id string) error {
	if _, err := s.mutable(ctx, viewer, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// Stop flushes pending notifications and waits for the workers.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification workers stopped")
	})
}
