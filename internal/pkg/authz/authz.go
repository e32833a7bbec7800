// Package authz evaluates role permissions for mutating routes using a casbin
// RBAC model. Row-level visibility is handled separately by access scopes.
package authz

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

//go:embed model.conf
var modelText string

//go:embed policy.csv
var policyCSV []byte

type Authorizer struct {
	enforcer *casbin.Enforcer
}

// New builds an Authorizer from the embedded model and role policy.
func New() (*Authorizer, error) {
	return NewFromPolicy(policyCSV)
}

// NewFromPolicy builds an Authorizer from a policy in casbin CSV form.
func NewFromPolicy(policy []byte) (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	if err := loadPolicy(e, policy); err != nil {
		return nil, err
	}

	return &Authorizer{enforcer: e}, nil
}

func loadPolicy(e *casbin.Enforcer, policy []byte) error {
	r := csv.NewReader(bytes.NewReader(policy))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.Comment = '#'

	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read policy: %w", err)
		}

		switch strings.TrimSpace(record[0]) {
		case "p":
			if len(record) != 4 {
				return fmt.Errorf("malformed policy line %v", record)
			}
			if _, err := e.AddPolicy(record[1], record[2], record[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", record, err)
			}
		case "g":
			if len(record) != 3 {
				return fmt.Errorf("malformed grouping line %v", record)
			}
			if _, err := e.AddGroupingPolicy(record[1], record[2]); err != nil {
				return fmt.Errorf("failed to add grouping %v: %w", record, err)
			}
		default:
			return fmt.Errorf("unknown policy type %q", record[0])
		}
	}
}

// Allowed reports whether role holds permission p. Evaluation errors deny.
func (a *Authorizer) Allowed(role access.Role, p access.Permission) bool {
	ok, err := a.enforcer.Enforce(string(role), p.Object, p.Action)
	if err != nil {
		slog.Error("authorization check failed", "role", role, "permission", p.String(), "error", err)
		return false
	}
	return ok
}
