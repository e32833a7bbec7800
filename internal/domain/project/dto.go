package project

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status,omitempty"`
	CompanyID   *string `json:"company_id,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`

	ParsedStatus Status     `json:"-"`
	Start        *time.Time `json:"-"`
	End          *time.Time `json:"-"`
}

func (r *CreateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if r.Status == "" {
		r.Status = string(StatusPlanning)
	}
	st, err := ParseStatus(r.Status)
	if err != nil {
		errs.Add("status", "status must be one of: planning, active, on_hold, completed")
	}
	r.ParsedStatus = st

	r.Start, r.End = parseDates(&errs, r.StartDate, r.EndDate)
	return errs.Err()
}

type UpdateProjectRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`

	ParsedStatus *Status    `json:"-"`
	Start        *time.Time `json:"-"`
	End          *time.Time `json:"-"`
}

func (r *UpdateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			errs.Add("name", "name must not be empty")
		}
		r.Name = &trimmed
	}
	if r.Status != nil {
		st, err := ParseStatus(*r.Status)
		if err != nil {
			errs.Add("status", "status must be one of: planning, active, on_hold, completed")
		} else {
			r.ParsedStatus = &st
		}
	}

	r.Start, r.End = parseDates(&errs, r.StartDate, r.EndDate)
	return errs.Err()
}

func parseDates(errs *validator.ValidationErrors, start, end *string) (*time.Time, *time.Time) {
	parse := func(field string, s *string) *time.Time {
		if s == nil {
			return nil
		}
		d, ok := validator.IsValidDate(*s)
		if !ok {
			errs.Add(field, field+" must be in YYYY-MM-DD format")
			return nil
		}
		return &d
	}
	from, to := parse("start_date", start), parse("end_date", end)
	if from != nil && to != nil && to.Before(*from) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	return from, to
}

type AssignmentRequest struct {
	UserID string `json:"user_id"`
}

func (r *AssignmentRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	return errs.Err()
}

type ProjectFilter struct {
	Status *Status
	Page   int
	Limit  int
}

func (f *ProjectFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 50
	}
}

type ProjectResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
	StartDate       *string   `json:"start_date,omitempty"`
	EndDate         *string   `json:"end_date,omitempty"`
	AssignedUserIDs []string  `json:"assigned_user_ids"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func ToResponse(p Project) ProjectResponse {
	members := p.AssignedUserIDs
	if members == nil {
		members = []string{}
	}
	return ProjectResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		Name:            p.Name,
		Description:     p.Description,
		Status:          string(p.Status),
		StartDate:       formatDate(p.StartDate),
		EndDate:         formatDate(p.EndDate),
		AssignedUserIDs: members,
		CreatedBy:       p.CreatedBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type ListProjectResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Projects   []ProjectResponse `json:"projects"`
}
