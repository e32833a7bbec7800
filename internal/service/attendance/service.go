package attendance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/metrics"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
	"github.com/xuri/excelize/v2"
)

// SettingsProvider supplies the attendance settings each calculation runs with.
type SettingsProvider interface {
	Attendance(ctx context.Context) (attendance.Settings, error)
}

type AttendanceServiceImpl struct {
	attendance.EventRepository
	user.UserRepository
	settings     SettingsProvider
	loc          *time.Location
	maxRangeDays int
	metrics      *metrics.Metrics
}

func NewAttendanceService(
	eventRepository attendance.EventRepository,
	userRepository user.UserRepository,
	settings SettingsProvider,
	loc *time.Location,
	maxRangeDays int,
	m *metrics.Metrics,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		EventRepository: eventRepository,
		UserRepository:  userRepository,
		settings:        settings,
		loc:             loc,
		maxRangeDays:    maxRangeDays,
		metrics:         m,
	}
}

// employee resolves an employee id to its active user row.
func (a *AttendanceServiceImpl) employee(ctx context.Context, employeeID string) (user.User, error) {
	u, err := a.UserRepository.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, attendance.ErrEmployeeNotFound
		}
		return user.User{}, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}
	return u, nil
}

// authorizeEmployee checks that viewer may see attendance of employeeID.
func (a *AttendanceServiceImpl) authorizeEmployee(ctx context.Context, viewer access.Viewer, employeeID string) (user.User, error) {
	u, err := a.employee(ctx, employeeID)
	if err != nil {
		return user.User{}, err
	}
	err = access.Authorize(viewer, access.ResourceAttendance, access.Ownership{
		Owner:     u.EmployeeID,
		CompanyID: u.CompanyIDValue(),
	})
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

// day re-anchors a calendar date to the configured attendance timezone. The
// zero time means today.
func (a *AttendanceServiceImpl) day(date time.Time) time.Time {
	if date.IsZero() {
		date = time.Now().In(a.loc)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, a.loc)
}

func (a *AttendanceServiceImpl) record(ctx context.Context, event attendance.Event, source string) (attendance.EventResponse, error) {
	u, err := a.employee(ctx, event.EmployeeID)
	if err != nil {
		return attendance.EventResponse{}, err
	}
	if !u.IsActive() {
		return attendance.EventResponse{}, attendance.ErrEmployeeInactive
	}

	created, err := a.EventRepository.Create(ctx, event)
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to record attendance event: %w", err)
	}

	a.metrics.AttendanceRecorded(string(created.EventType), source)
	slog.Info("attendance event recorded",
		"employee_id", created.EmployeeID,
		"event_type", created.EventType,
		"device_id", created.DeviceID,
		"source", source,
	)
	return attendance.ToEventResponse(created), nil
}

// RecordEvent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordEvent(ctx context.Context, req attendance.RecordEventRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	ts := req.At
	if ts.IsZero() {
		ts = time.Now()
	}
	score := 0
	if req.MatchScore != nil {
		score = *req.MatchScore
	}

	return a.record(ctx, attendance.Event{
		EmployeeID: req.EmployeeID,
		EventType:  attendance.EventType(req.EventType),
		DeviceID:   req.DeviceID,
		MatchScore: score,
		Notes:      req.Notes,
		Timestamp:  ts.UTC(),
	}, "terminal")
}

// RecordManual implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordManual(ctx context.Context, viewer access.Viewer, req attendance.ManualEntryRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}
	if !viewer.Role.CanReview() {
		return attendance.EventResponse{}, access.ErrUnauthorized
	}
	if _, err := a.authorizeEmployee(ctx, viewer, req.EmployeeID); err != nil {
		return attendance.EventResponse{}, err
	}

	return a.record(ctx, attendance.Event{
		EmployeeID: req.EmployeeID,
		EventType:  attendance.EventType(req.EventType),
		DeviceID:   req.DeviceID,
		MatchScore: *req.MatchScore,
		Notes:      req.Notes,
		Timestamp:  req.At.UTC(),
	}, "manual")
}

// LastEvent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) LastEvent(ctx context.Context, employeeID string) (attendance.EventResponse, error) {
	if _, err := a.employee(ctx, employeeID); err != nil {
		return attendance.EventResponse{}, err
	}
	last, err := a.EventRepository.Last(ctx, employeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrEventNotFound) {
			return attendance.EventResponse{}, err
		}
		return attendance.EventResponse{}, fmt.Errorf("failed to get last attendance event: %w", err)
	}
	return attendance.ToEventResponse(last), nil
}

// LastEventFor implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) LastEventFor(ctx context.Context, viewer access.Viewer, employeeID string) (attendance.EventResponse, error) {
	if _, err := a.authorizeEmployee(ctx, viewer, employeeID); err != nil {
		return attendance.EventResponse{}, err
	}
	return a.LastEvent(ctx, employeeID)
}

// ListEvents implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListEvents(ctx context.Context, viewer access.Viewer, filter attendance.EventFilter) (attendance.ListEventResponse, error) {
	if err := filter.Validate(a.loc); err != nil {
		return attendance.ListEventResponse{}, err
	}
	scope, err := access.ScopeFor(viewer, access.ResourceAttendance)
	if err != nil {
		return attendance.ListEventResponse{}, err
	}

	events, total, err := a.EventRepository.List(ctx, scope, filter)
	if err != nil {
		return attendance.ListEventResponse{}, fmt.Errorf("failed to list attendance events: %w", err)
	}

	responses := make([]attendance.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, attendance.ToEventResponse(e))
	}

	return attendance.ListEventResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Events:     responses,
	}, nil
}

func (a *AttendanceServiceImpl) eventsOn(ctx context.Context, employeeID string, day time.Time) ([]attendance.Event, error) {
	window := timewindow.Day(day)
	events, err := a.EventRepository.FindForEmployeeBetween(ctx, employeeID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance events: %w", err)
	}
	for i := range events {
		events[i].Timestamp = events[i].Timestamp.In(a.loc)
	}
	return events, nil
}

// EmployeeDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EmployeeDay(ctx context.Context, viewer access.Viewer, employeeID string, date time.Time) (attendance.EmployeeDayResponse, error) {
	if _, err := a.authorizeEmployee(ctx, viewer, employeeID); err != nil {
		return attendance.EmployeeDayResponse{}, err
	}

	day := a.day(date)
	events, err := a.eventsOn(ctx, employeeID, day)
	if err != nil {
		return attendance.EmployeeDayResponse{}, err
	}

	responses := make([]attendance.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, attendance.ToEventResponse(e))
	}
	return attendance.EmployeeDayResponse{
		EmployeeID: employeeID,
		Date:       day.Format("2006-01-02"),
		Events:     responses,
		Count:      len(responses),
	}, nil
}

// DailySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DailySummary(ctx context.Context, viewer access.Viewer, employeeID string, date time.Time) (attendance.DailySummaryResponse, error) {
	if _, err := a.authorizeEmployee(ctx, viewer, employeeID); err != nil {
		return attendance.DailySummaryResponse{}, err
	}
	settings, err := a.settings.Attendance(ctx)
	if err != nil {
		return attendance.DailySummaryResponse{}, err
	}

	day := a.day(date)
	events, err := a.eventsOn(ctx, employeeID, day)
	if err != nil {
		return attendance.DailySummaryResponse{}, err
	}

	return attendance.ToDailySummaryResponse(SummarizeDay(employeeID, day, events, settings)), nil
}

func (a *AttendanceServiceImpl) summarize(ctx context.Context, viewer access.Viewer, req attendance.SummaryRequest) (attendance.RangeSummary, error) {
	if err := req.Validate(a.loc); err != nil {
		return attendance.RangeSummary{}, err
	}
	if req.End.Before(req.Start) {
		return attendance.RangeSummary{}, attendance.ErrInvalidRange
	}
	if a.maxRangeDays > 0 && len(timewindow.Days(req.Start, req.End)) > a.maxRangeDays {
		return attendance.RangeSummary{}, attendance.ErrRangeTooLong
	}
	if _, err := a.authorizeEmployee(ctx, viewer, req.EmployeeID); err != nil {
		return attendance.RangeSummary{}, err
	}

	settings, err := a.settings.Attendance(ctx)
	if err != nil {
		return attendance.RangeSummary{}, err
	}

	events, err := a.EventRepository.FindForEmployeeBetween(ctx, req.EmployeeID, req.Start, req.End.AddDate(0, 0, 1))
	if err != nil {
		return attendance.RangeSummary{}, fmt.Errorf("failed to get attendance events: %w", err)
	}

	return SummarizeRange(req.EmployeeID, req.Start, req.End, GroupByDay(events, a.loc), settings)
}

// RangeSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RangeSummary(ctx context.Context, viewer access.Viewer, req attendance.SummaryRequest) (attendance.RangeSummaryResponse, error) {
	summary, err := a.summarize(ctx, viewer, req)
	if err != nil {
		return attendance.RangeSummaryResponse{}, err
	}
	return attendance.ToRangeSummaryResponse(summary), nil
}

var eventCSVHeader = []string{"id", "employee_id", "event_type", "device_id", "match_score", "notes", "timestamp", "created_at"}

// ExportEvents implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ExportEvents(ctx context.Context, viewer access.Viewer, filter attendance.EventFilter, w io.Writer) error {
	if err := filter.Validate(a.loc); err != nil {
		return err
	}
	scope, err := access.ScopeFor(viewer, access.ResourceAttendance)
	if err != nil {
		return err
	}

	events, err := a.EventRepository.ListAll(ctx, scope, filter)
	if err != nil {
		return fmt.Errorf("failed to list attendance events: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(eventCSVHeader); err != nil {
		return err
	}
	for _, e := range events {
		notes := ""
		if e.Notes != nil {
			notes = *e.Notes
		}
		row := []string{
			e.ID,
			e.EmployeeID,
			string(e.EventType),
			e.DeviceID,
			strconv.Itoa(e.MatchScore),
			notes,
			e.Timestamp.In(a.loc).Format(time.RFC3339),
			e.CreatedAt.In(a.loc).Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const summarySheet = "Summary"

// ExportRangeSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ExportRangeSummary(ctx context.Context, viewer access.Viewer, req attendance.SummaryRequest, w io.Writer) error {
	summary, err := a.summarize(ctx, viewer, req)
	if err != nil {
		return err
	}
	resp := attendance.ToRangeSummaryResponse(summary)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}

	rows := [][]interface{}{
		{"Employee", resp.EmployeeID, "From", resp.StartDate, "To", resp.EndDate},
		{},
		{"Date", "Day", "Status", "Check In", "Check Out", "Worked Hours", "Total Hours", "Lunch Break Hours", "Records"},
	}
	for _, d := range resp.DailySummaries {
		rows = append(rows, []interface{}{
			d.Date, d.DayOfWeek, d.Status, clock(d.CheckIn, a.loc), clock(d.CheckOut, a.loc),
			d.WorkedHours, d.TotalHours, d.LunchBreakHours, d.TotalRecords,
		})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Worked Hours", resp.Totals.WorkedHours},
		[]interface{}{"Complete Days", resp.Totals.CompleteDays},
		[]interface{}{"Days With Records", resp.Totals.DaysWithRecords},
		[]interface{}{"Total Days", resp.Totals.TotalDays},
		[]interface{}{"Absent Days", resp.Totals.AbsentDays},
		[]interface{}{"Total Records", resp.Totals.TotalRecords},
	)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// clock renders an RFC3339 instant as HH:MM in loc, or "-" when absent.
func clock(s *string, loc *time.Location) string {
	if s == nil {
		return "-"
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return *s
	}
	return t.In(loc).Format("15:04")
}
