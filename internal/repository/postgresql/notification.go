package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `
	id, user_id::text, target_roles, company_id::text, title, message, kind, related_id,
	is_read, read_at, created_at`

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var (
		n     notification.Notification
		roles []string
	)
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&roles,
		&n.CompanyID,
		&n.Title,
		&n.Message,
		&n.Kind,
		&n.RelatedID,
		&n.IsRead,
		&n.ReadAt,
		&n.CreatedAt,
	)
	if err != nil {
		return notification.Notification{}, err
	}
	for _, r := range roles {
		n.TargetRoles = append(n.TargetRoles, access.Role(r))
	}
	return n, nil
}

func roleStrings(roles []access.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// visibility renders the router filter as one predicate:
// personal rows, untargeted rows for admins, and role broadcasts optionally
// narrowed to a company.
func visibility(c *conditions, f notification.Filter) {
	var alternatives []string
	if f.UserID != "" {
		c.args = append(c.args, f.UserID)
		alternatives = append(alternatives, fmt.Sprintf("user_id::text = $%d", len(c.args)))
	}
	if f.IncludeUntargeted {
		alternatives = append(alternatives, "(user_id IS NULL AND cardinality(target_roles) = 0)")
	}
	if len(f.Roles) > 0 {
		c.args = append(c.args, roleStrings(f.Roles))
		broadcast := fmt.Sprintf("target_roles && $%d::text[]", len(c.args))
		if f.RestrictCompany {
			c.args = append(c.args, f.CompanyID)
			broadcast = fmt.Sprintf("(%s AND company_id IS NOT NULL AND company_id::text = $%d)", broadcast, len(c.args))
		}
		alternatives = append(alternatives, broadcast)
	}

	if len(alternatives) == 0 {
		c.raw("FALSE")
		return
	}
	c.raw("(" + strings.Join(alternatives, " OR ") + ")")
}

func newNotificationID(n notification.Notification) (string, error) {
	if n.ID != "" {
		return n.ID, nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Create implements notification.NotificationRepository.
func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newNotificationID(n)
	if err != nil {
		return notification.Notification{}, err
	}

	query := `
		INSERT INTO notifications (id, user_id, target_roles, company_id, title, message, kind, related_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + notificationColumns

	created, err := scanNotification(q.QueryRow(ctx, query,
		id,
		n.UserID,
		roleStrings(n.TargetRoles),
		n.CompanyID,
		n.Title,
		n.Message,
		string(n.Kind),
		n.RelatedID,
		n.CreatedAt,
	))
	if err != nil {
		return notification.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return created, nil
}

// CreateBatch implements notification.NotificationRepository with a single multi-row insert.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	const columns = 9
	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]interface{}, 0, len(notifications)*columns)

	for i, n := range notifications {
		id, err := newNotificationID(n)
		if err != nil {
			return err
		}

		base := i * columns
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		valueArgs = append(valueArgs,
			id,
			n.UserID,
			roleStrings(n.TargetRoles),
			n.CompanyID,
			n.Title,
			n.Message,
			string(n.Kind),
			n.RelatedID,
			n.CreatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, user_id, target_roles, company_id, title, message, kind, related_id, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}
	return nil
}

// GetByID implements notification.NotificationRepository.
func (r *notificationRepository) GetByID(ctx context.Context, id string) (notification.Notification, error) {
	if _, err := uuid.Parse(id); err != nil {
		return notification.Notification{}, notification.ErrNotificationNotFound
	}
	q := GetQuerier(ctx, r.db)
	n, err := scanNotification(q.QueryRow(ctx, "SELECT "+notificationColumns+" FROM notifications WHERE id = $1", id))
	if err != nil {
		return notification.Notification{}, notFound(err, notification.ErrNotificationNotFound)
	}
	return n, nil
}

// List implements notification.NotificationRepository.
func (r *notificationRepository) List(ctx context.Context, f notification.Filter, req notification.ListNotificationsRequest) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)
	req.Normalize()

	var c conditions
	visibility(&c, f)
	if req.UnreadOnly {
		c.raw("is_read = FALSE")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM notifications"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := "SELECT " + notificationColumns + " FROM notifications" + c.where() + " ORDER BY created_at DESC" + c.paginate(req.Page, req.Limit)
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	return notifications, total, rows.Err()
}

// CountUnread implements notification.NotificationRepository.
func (r *notificationRepository) CountUnread(ctx context.Context, f notification.Filter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	visibility(&c, f)
	c.raw("is_read = FALSE")

	var count int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM notifications"+c.where(), c.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead implements notification.NotificationRepository.
func (r *notificationRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead implements notification.NotificationRepository.
func (r *notificationRepository) MarkAllRead(ctx context.Context, f notification.Filter, at time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	c := conditions{args: []interface{}{at}}
	visibility(&c, f)
	c.raw("is_read = FALSE")

	tag, err := q.Exec(ctx, "UPDATE notifications SET is_read = TRUE, read_at = $1"+c.where(), c.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete implements notification.NotificationRepository.
func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
