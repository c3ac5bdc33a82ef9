package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery-api/internal/database"
	"bakery-api/internal/domain"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	DeleteBySKU(ctx context.Context, sku string) error
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
}

type productRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB, timeout time.Duration) ProductRepository {
	return &productRepository{db: db, timeout: timeout}
}

const productColumns = `id, name, description, price, category, image, stock, sku, status, created_at, updated_at`

// Create inserts a new product. SKUs are unique regardless of case.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Image,
		product.Stock,
		product.SKU,
		product.Status,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return translateProductError("create", err)
	}

	return nil
}

// Update overwrites an existing product, identified by its ID
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5,
		    image = $6, stock = $7, sku = $8, status = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Image,
		product.Stock,
		product.SKU,
		product.Status,
		product.UpdatedAt,
	)
	if err != nil {
		return translateProductError("update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// DeleteBySKU removes a product. Products with recorded movements are kept.
func (r *productRepository) DeleteBySKU(ctx context.Context, sku string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE UPPER(sku) = UPPER($1)`, sku)
	if err != nil {
		return translateProductError("delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindBySKU retrieves a product by SKU, ignoring case
func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE UPPER(sku) = UPPER($1)`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, sku))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by SKU: %w", err)
	}

	return product, nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products matching the filter, newest first
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	conditions := []string{}
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
	`, productColumns, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.Image,
		&product.Stock,
		&product.SKU,
		&product.Status,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func translateProductError(op string, err error) error {
	switch database.ClassifyError(err) {
	case database.ErrorClassUniqueViolation:
		return ErrSKUAlreadyExists
	case database.ErrorClassForeignKeyViolation:
		return ErrProductInUse
	case database.ErrorClassCheckViolation:
		return fmt.Errorf("%w: %s", ErrConstraintViolated, database.ConstraintName(err))
	case database.ErrorClassDataException:
		return fmt.Errorf("%w: %v", ErrConstraintViolated, err)
	}
	return fmt.Errorf("failed to %s product: %w", op, err)
}
