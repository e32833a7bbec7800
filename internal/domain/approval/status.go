// Package approval holds the review lifecycle shared by leave requests and
// salary advances.
package approval

import (
	"errors"
	"strings"
)

var (
	ErrAlreadyProcessed = errors.New("request has already been processed")
	ErrNotPending       = errors.New("only pending requests can be changed")
	ErrInvalidDecision  = errors.New("decision must be approved or rejected")
	ErrInvalidStatus    = errors.New("invalid status, expected pending, approved or rejected")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

// Review returns the status after a reviewer decision. A request leaves
// pending exactly once.
func (s Status) Review(decision Status) (Status, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return s, ErrInvalidDecision
	}
	if s != StatusPending {
		return s, ErrAlreadyProcessed
	}
	return decision, nil
}

// Withdrawable reports ErrNotPending unless the owner may still delete the request.
func (s Status) Withdrawable() error {
	if s != StatusPending {
		return ErrNotPending
	}
	return nil
}
