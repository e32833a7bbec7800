package postgresql

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

// conditions accumulates AND-ed predicates with positional arguments.
type conditions struct {
	clauses []string
	args    []interface{}
}

// add appends a predicate; format holds one %d for the argument's position.
func (c *conditions) add(format string, arg interface{}) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(format, len(c.args)))
}

func (c *conditions) raw(clause string) {
	c.clauses = append(c.clauses, clause)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// paginate appends LIMIT/OFFSET placeholders and returns the clause.
func (c *conditions) paginate(page, limit int) string {
	c.args = append(c.args, limit, offset(page, limit))
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(c.args)-1, len(c.args))
}

// scopeColumns names the columns a table exposes to the scope predicate.
// Member is a format with one %d for the subject's position.
type scopeColumns struct {
	Owner   string
	Company string
	Member  string
}

// applyScope renders s into c. A scope the table cannot express matches nothing.
func applyScope(c *conditions, s access.Scope, cols scopeColumns) {
	switch s.Kind {
	case access.ScopeGlobal:
	case access.ScopeCompany:
		if cols.Company == "" || s.CompanyID == "" {
			c.raw("FALSE")
			return
		}
		c.add(cols.Company+" = $%d", s.CompanyID)
	case access.ScopeOwn:
		if cols.Owner == "" {
			c.raw("FALSE")
			return
		}
		c.add(cols.Owner+" = $%d", s.Subject)
	case access.ScopeMember:
		if cols.Member == "" {
			c.raw("FALSE")
			return
		}
		c.add(cols.Member, s.Subject)
	default:
		c.raw("FALSE")
	}
}

func offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
