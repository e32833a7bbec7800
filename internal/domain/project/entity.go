package project

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted:
		return st, nil
	}
	return "", ErrInvalidStatus
}

type Project struct {
	ID              string
	CompanyID       string
	Name            string
	Description     string
	Status          Status
	StartDate       *time.Time
	EndDate         *time.Time
	AssignedUserIDs []string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p Project) Ownership() access.Ownership {
	return access.Ownership{CompanyID: p.CompanyID, Members: p.AssignedUserIDs}
}

func (p Project) IsAssigned(userID string) bool {
	for _, id := range p.AssignedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
