package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrProductNotFound    = errors.New("product not found")
	ErrSKUAlreadyExists   = errors.New("product with this sku already exists")
	ErrProductInUse       = errors.New("product is referenced by inventory movements")
	ErrMovementNotFound   = errors.New("inventory movement not found")
	ErrReferenceNotFound  = errors.New("referenced record does not exist")
	ErrUserReference      = errors.New("referenced user does not exist")
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidDateRange   = errors.New("end date precedes start date")
	ErrConstraintViolated = errors.New("value violates a column constraint")
)

// DefaultQueryTimeout bounds every store call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// ProductFilter narrows product listings. Empty fields match everything.
type ProductFilter struct {
	Category string
	Status   string
}

// InventoryFilter narrows inventory listings.
type InventoryFilter struct {
	ProductID *uuid.UUID
	Movement  string
}

// InventoryExpand selects which references are resolved into summaries.
type InventoryExpand struct {
	Product bool
	User    bool
}

// EventFilter narrows event listings.
type EventFilter struct {
	Status string
}

// EventExpand selects which references are resolved into summaries.
type EventExpand struct {
	Organizer bool
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultQueryTimeout
	}
	return context.WithTimeout(ctx, d)
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}
