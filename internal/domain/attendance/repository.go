package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

// EventRepository stores raw attendance events. Events are append-only, so the
// repository exposes no update or delete.
type EventRepository interface {
	// Create appends a new event
	Create(ctx context.Context, event Event) (Event, error)

	// FindForEmployeeBetween returns the employee's events with from <= timestamp < to,
	// ordered by timestamp then insertion order.
	FindForEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Event, error)

	// Last returns the most recent event of an employee
	Last(ctx context.Context, employeeID string) (Event, error)

	// List returns a page of events visible within scope, newest first
	List(ctx context.Context, scope access.Scope, filter EventFilter) ([]Event, int64, error)

	// ListAll returns every event visible within scope matching filter, newest first
	ListAll(ctx context.Context, scope access.Scope, filter EventFilter) ([]Event, error)
}
