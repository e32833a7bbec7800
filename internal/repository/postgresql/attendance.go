package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepositoryImpl{db: db}
}

const eventColumns = `id, employee_id, event_type, device_id, match_score, notes, timestamp, created_at`

// Events carry no company; supervisors see events of their company's employees.
var eventScopeColumns = scopeColumns{
	Owner:   "employee_id",
	Company: "employee_id IN (SELECT employee_id FROM users WHERE company_id::text = $%d)",
}

func scanEvent(row pgx.Row) (attendance.Event, error) {
	var e attendance.Event
	err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.EventType,
		&e.DeviceID,
		&e.MatchScore,
		&e.Notes,
		&e.Timestamp,
		&e.CreatedAt,
	)
	return e, err
}

func collectEvents(rows pgx.Rows) ([]attendance.Event, error) {
	defer rows.Close()
	events := make([]attendance.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create implements attendance.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Event{}, err
	}

	query := `
		INSERT INTO attendance_events (id, employee_id, event_type, device_id, match_score, notes, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + eventColumns

	created, err := scanEvent(q.QueryRow(ctx, query,
		id.String(),
		event.EmployeeID,
		string(event.EventType),
		event.DeviceID,
		event.MatchScore,
		event.Notes,
		event.Timestamp,
	))
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to insert attendance event: %w", err)
	}
	return created, nil
}

// FindForEmployeeBetween implements attendance.EventRepository.
func (r *eventRepositoryImpl) FindForEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+eventColumns+`
		FROM attendance_events
		WHERE employee_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp, seq
	`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance events: %w", err)
	}
	return collectEvents(rows)
}

// Last implements attendance.EventRepository.
func (r *eventRepositoryImpl) Last(ctx context.Context, employeeID string) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEvent(q.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM attendance_events
		WHERE employee_id = $1
		ORDER BY timestamp DESC, seq DESC
		LIMIT 1
	`, employeeID))
	if err != nil {
		return attendance.Event{}, notFound(err, attendance.ErrEventNotFound)
	}
	return e, nil
}

func eventConditions(scope access.Scope, filter attendance.EventFilter) conditions {
	var c conditions
	applyScope(&c, scope, eventScopeColumns)
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		c.add("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.EventType != nil && *filter.EventType != "" {
		c.add("event_type = $%d", *filter.EventType)
	}
	if filter.From != nil {
		c.add("timestamp >= $%d", *filter.From)
	}
	if filter.To != nil {
		c.add("timestamp < $%d", *filter.To)
	}
	return c
}

// List implements attendance.EventRepository.
func (r *eventRepositoryImpl) List(ctx context.Context, scope access.Scope, filter attendance.EventFilter) ([]attendance.Event, int64, error) {
	q := GetQuerier(ctx, r.db)
	c := eventConditions(scope, filter)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_events"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance events: %w", err)
	}

	query := "SELECT " + eventColumns + " FROM attendance_events" + c.where() +
		" ORDER BY timestamp DESC, seq DESC" + c.paginate(filter.Page, filter.Limit)
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListAll implements attendance.EventRepository.
func (r *eventRepositoryImpl) ListAll(ctx context.Context, scope access.Scope, filter attendance.EventFilter) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)
	c := eventConditions(scope, filter)

	rows, err := q.Query(ctx, "SELECT "+eventColumns+" FROM attendance_events"+c.where()+" ORDER BY timestamp DESC, seq DESC", c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	return collectEvents(rows)
}
