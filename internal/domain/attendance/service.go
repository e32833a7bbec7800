package attendance

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

// AttendanceService defines business logic for attendance capture and reporting
type AttendanceService interface {
	// RecordEvent appends an event from a trusted source (terminal or authorised operator)
	RecordEvent(ctx context.Context, req RecordEventRequest) (EventResponse, error)

	// RecordManual appends an operator-entered event for an employee within the viewer's scope
	RecordManual(ctx context.Context, viewer access.Viewer, req ManualEntryRequest) (EventResponse, error)

	// LastEvent returns an employee's latest event for a trusted device
	LastEvent(ctx context.Context, employeeID string) (EventResponse, error)

	// LastEventFor returns an employee's latest event if the viewer may see it
	LastEventFor(ctx context.Context, viewer access.Viewer, employeeID string) (EventResponse, error)

	// ListEvents returns a scoped, paginated event listing
	ListEvents(ctx context.Context, viewer access.Viewer, filter EventFilter) (ListEventResponse, error)

	// EmployeeDay returns the raw events of one employee on one day
	EmployeeDay(ctx context.Context, viewer access.Viewer, employeeID string, date time.Time) (EmployeeDayResponse, error)

	// DailySummary classifies one employee-day
	DailySummary(ctx context.Context, viewer access.Viewer, employeeID string, date time.Time) (DailySummaryResponse, error)

	// RangeSummary classifies every day of an inclusive range and aggregates totals
	RangeSummary(ctx context.Context, viewer access.Viewer, req SummaryRequest) (RangeSummaryResponse, error)

	// ExportEvents writes matching events as CSV
	ExportEvents(ctx context.Context, viewer access.Viewer, filter EventFilter, w io.Writer) error

	// ExportRangeSummary writes a range summary as an XLSX workbook
	ExportRangeSummary(ctx context.Context, viewer access.Viewer, req SummaryRequest, w io.Writer) error
}
