package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

// notFound maps pgx.ErrNoRows to the domain error and passes anything else through.
func notFound(err, domainErr error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErr
	}
	return err
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// stillReferenced reports whether err is a foreign key violation.
func stillReferenced(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// uniqueConstraint returns the violated constraint name, or "" for other errors.
func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

// nullIfEmpty stores "" as NULL for nullable foreign keys.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
