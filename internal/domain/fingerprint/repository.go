package fingerprint

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
)

type FingerprintRepository interface {
	// Upsert inserts or replaces the enrollment keyed by employee id.
	Upsert(ctx context.Context, e Enrollment) (Enrollment, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (Enrollment, error)
	ListActive(ctx context.Context) ([]Enrollment, error)
	Deactivate(ctx context.Context, employeeID string) error
	// ListPendingUsers returns active users without an active enrolled fingerprint,
	// newest first.
	ListPendingUsers(ctx context.Context) ([]user.User, error)
}
