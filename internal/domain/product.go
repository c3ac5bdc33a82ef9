package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices and amounts are written as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product categories
const (
	CategoryPostre   = "postre"
	CategoryPan      = "pan"
	CategoryGalletas = "galletas"
	CategoryTortas   = "tortas"
)

// Product statuses
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// DefaultProductImage is stored when a product is created without an image.
const DefaultProductImage = "default-product.jpg"

// Product represents a product in the catalog. SKU is its natural key.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category"`
	Image       string          `json:"image" db:"image"`
	Stock       int             `json:"stock" db:"stock"`
	SKU         string          `json:"sku" db:"sku"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductSummary is the embedded form of a product reference.
type ProductSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	SKU  string    `json:"sku"`
}
