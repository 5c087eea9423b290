package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	ForeignKeyViolationCode = "23503"
)

var (
	ErrRecordNotFound = pgx.ErrNoRows
	ErrPostClosed     = errors.New("post is closed")
)

// ErrorDescription returns the error code and constraint name from a Postgres error.
func ErrorDescription(err error) (errCode string, constraintName string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return
}

// bidError maps a failed bid insert: a bid referencing a missing post is ErrRecordNotFound.
func bidError(err error) error {
	if errCode, _ := ErrorDescription(err); errCode == ForeignKeyViolationCode {
		return ErrRecordNotFound
	}
	return fmt.Errorf("failed to create bid: %w", err)
}
