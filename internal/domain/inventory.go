package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement kinds
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
)

// InventoryMovement records stock entering, leaving or being corrected at a
// location. Product and User are only populated when expanded on read.
type InventoryMovement struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	ProductID      uuid.UUID       `json:"product_id" db:"product_id"`
	UserID         *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	Location       string          `json:"location" db:"location"`
	Movement       string          `json:"movement" db:"movement"`
	Reason         string          `json:"reason" db:"reason"`
	Reference      string          `json:"reference,omitempty" db:"reference"`
	Notes          string          `json:"notes,omitempty" db:"notes"`
	Batch          string          `json:"batch,omitempty" db:"batch"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty" db:"expiration_date"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	Product *ProductSummary `json:"product,omitempty"`
	User    *UserSummary    `json:"user,omitempty"`
}
