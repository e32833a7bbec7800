package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	RecordManual(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Last(w http.ResponseWriter, r *http.Request)
	EmployeeDay(w http.ResponseWriter, r *http.Request)
	DailySummary(w http.ResponseWriter, r *http.Request)
	RangeSummary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	ExportSummary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Record implements AttendanceHandler.
func (h *attendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordEventRequest
	if !decodeJSON(w, r, &req, "Record attendance") {
		return
	}

	result, err := h.attendanceService.RecordEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded successfully", result)
}

// RecordManual implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordManual(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	var req attendance.ManualEntryRequest
	if !decodeJSON(w, r, &req, "Manual attendance") {
		return
	}

	result, err := h.attendanceService.RecordManual(r.Context(), v, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual attendance recorded successfully", result)
}

func eventFilter(r *http.Request) attendance.EventFilter {
	return attendance.EventFilter{
		EmployeeID: queryString(r, "employee_id"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		EventType:  queryString(r, "event_type"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	results, err := h.attendanceService.ListEvents(r.Context(), v, eventFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Last implements AttendanceHandler.
func (h *attendanceHandlerImpl) Last(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.LastEventFor(r.Context(), v, chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// EmployeeDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmployeeDay(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}

	result, err := h.attendanceService.EmployeeDay(r.Context(), v, chi.URLParam(r, "employeeID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DailySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) DailySummary(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}

	result, err := h.attendanceService.DailySummary(r.Context(), v, chi.URLParam(r, "employeeID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func summaryRequest(r *http.Request) attendance.SummaryRequest {
	q := r.URL.Query()
	return attendance.SummaryRequest{
		EmployeeID: q.Get("employee_id"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}
}

// RangeSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) RangeSummary(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.RangeSummary(r.Context(), v, summaryRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.attendanceService.ExportEvents(r.Context(), v, eventFilter(r), &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s.csv", time.Now().Format("20060102_150405"))
	writeAttachment(w, contentTypeCSV, filename, buf.Bytes())
}

// ExportSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) ExportSummary(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	req := summaryRequest(r)
	var buf bytes.Buffer
	if err := h.attendanceService.ExportRangeSummary(r.Context(), v, req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_summary_%s_%s_%s.xlsx", req.EmployeeID, req.StartDate, req.EndDate)
	writeAttachment(w, contentTypeXLSX, filename, buf.Bytes())
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
