package service

import (
	"errors"
	"strings"

	"bakery-api/internal/apperror"
	"bakery-api/internal/repository"

	"github.com/google/uuid"
)

// parseID rejects anything that is not a UUID before the store is touched.
func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperror.InvalidIdentifier(field)
	}
	return id, nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func enumError(field string, allowed ...string) *apperror.Error {
	return apperror.Field(field, "Must be one of: "+strings.Join(allowed, ", "))
}

// storeError maps the repository sentinels shared by every entity.
func storeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrConstraintViolated):
		return apperror.Validation("value violates a data constraint")
	case errors.Is(err, repository.ErrInvalidDateRange):
		return apperror.Field("end_date", "End date must not precede start date")
	case errors.Is(err, repository.ErrUserReference):
		// The token is valid but its subject was deleted.
		return apperror.Unauthorized("authenticated user no longer exists")
	}
	return apperror.Internal(err)
}
