package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClass groups driver errors the repositories care about.
type ErrorClass int

const (
	ErrorClassOther ErrorClass = iota
	ErrorClassUniqueViolation
	ErrorClassForeignKeyViolation
	ErrorClassCheckViolation
	ErrorClassTimeout
	// ErrorClassDataException covers values too long or out of range for
	// their column.
	ErrorClassDataException
)

// ClassifyError inspects err by SQLSTATE so that callers never depend on
// the driver's error types.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassOther
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrorClassUniqueViolation
		case "23503":
			return ErrorClassForeignKeyViolation
		case "23514":
			return ErrorClassCheckViolation
		case "22001", "22003":
			return ErrorClassDataException
		case "57014":
			return ErrorClassTimeout
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}

	return ErrorClassOther
}

// ConstraintName returns the violated constraint, if the driver reported one.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
