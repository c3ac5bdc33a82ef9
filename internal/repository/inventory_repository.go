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

// InventoryRepository defines the interface for inventory movement data access
type InventoryRepository interface {
	Create(ctx context.Context, movement *domain.InventoryMovement) error
	Update(ctx context.Context, movement *domain.InventoryMovement) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, expand InventoryExpand) (*domain.InventoryMovement, error)
	List(ctx context.Context, filter InventoryFilter, expand InventoryExpand) ([]*domain.InventoryMovement, error)
}

type inventoryRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewInventoryRepository creates a new instance of InventoryRepository
func NewInventoryRepository(db *sql.DB, timeout time.Duration) InventoryRepository {
	return &inventoryRepository{db: db, timeout: timeout}
}

const inventorySelect = `
	SELECT m.id, m.product_id, m.user_id, m.amount, m.location, m.movement, m.reason,
	       m.reference, m.notes, m.batch, m.expiration_date, m.created_at, m.updated_at,
	       p.name, p.sku, u.name, u.email
	FROM inventory_movements m
	LEFT JOIN products p ON p.id = m.product_id
	LEFT JOIN users u ON u.id = m.user_id
`

// Create records a movement. The referenced product must exist.
func (r *inventoryRepository) Create(ctx context.Context, movement *domain.InventoryMovement) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO inventory_movements (
			id, product_id, user_id, amount, location, movement, reason,
			reference, notes, batch, expiration_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		movement.ID,
		movement.ProductID,
		nullUUID(movement.UserID),
		movement.Amount,
		movement.Location,
		movement.Movement,
		movement.Reason,
		movement.Reference,
		movement.Notes,
		movement.Batch,
		nullTime(movement.ExpirationDate),
		movement.CreatedAt,
		movement.UpdatedAt,
	)
	if err != nil {
		return translateInventoryError("create", err)
	}

	return nil
}

// Update replaces every mutable field. The recorder and creation time are kept.
func (r *inventoryRepository) Update(ctx context.Context, movement *domain.InventoryMovement) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE inventory_movements
		SET product_id = $2, amount = $3, location = $4, movement = $5, reason = $6,
		    reference = $7, notes = $8, batch = $9, expiration_date = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		movement.ID,
		movement.ProductID,
		movement.Amount,
		movement.Location,
		movement.Movement,
		movement.Reason,
		movement.Reference,
		movement.Notes,
		movement.Batch,
		nullTime(movement.ExpirationDate),
		movement.UpdatedAt,
	)
	if err != nil {
		return translateInventoryError("update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMovementNotFound
	}

	return nil
}

// Delete removes a movement by ID
func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM inventory_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory movement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMovementNotFound
	}

	return nil
}

// FindByID retrieves a movement, resolving the references selected by expand
func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID, expand InventoryExpand) (*domain.InventoryMovement, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	movement, err := scanMovement(r.db.QueryRowContext(ctx, inventorySelect+` WHERE m.id = $1`, id), expand)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovementNotFound
		}
		return nil, fmt.Errorf("failed to find inventory movement by ID: %w", err)
	}

	return movement, nil
}

// List retrieves movements matching the filter, newest first
func (r *inventoryRepository) List(ctx context.Context, filter InventoryFilter, expand InventoryExpand) ([]*domain.InventoryMovement, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	conditions := []string{}
	args := []any{}

	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		conditions = append(conditions, fmt.Sprintf("m.product_id = $%d", len(args)))
	}
	if filter.Movement != "" {
		args = append(args, filter.Movement)
		conditions = append(conditions, fmt.Sprintf("m.movement = $%d", len(args)))
	}

	query := inventorySelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY m.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory movements: %w", err)
	}
	defer rows.Close()

	movements := []*domain.InventoryMovement{}
	for rows.Next() {
		movement, err := scanMovement(rows, expand)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory movement: %w", err)
		}
		movements = append(movements, movement)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory movements: %w", err)
	}

	return movements, nil
}

func scanMovement(row rowScanner, expand InventoryExpand) (*domain.InventoryMovement, error) {
	var (
		movement       domain.InventoryMovement
		userID         uuid.NullUUID
		expirationDate sql.NullTime
		productName    sql.NullString
		productSKU     sql.NullString
		userName       sql.NullString
		userEmail      sql.NullString
	)

	err := row.Scan(
		&movement.ID,
		&movement.ProductID,
		&userID,
		&movement.Amount,
		&movement.Location,
		&movement.Movement,
		&movement.Reason,
		&movement.Reference,
		&movement.Notes,
		&movement.Batch,
		&expirationDate,
		&movement.CreatedAt,
		&movement.UpdatedAt,
		&productName,
		&productSKU,
		&userName,
		&userEmail,
	)
	if err != nil {
		return nil, err
	}

	movement.UserID = uuidPtr(userID)
	movement.ExpirationDate = timePtr(expirationDate)

	if expand.Product && productSKU.Valid {
		movement.Product = &domain.ProductSummary{
			ID:   movement.ProductID,
			Name: productName.String,
			SKU:  productSKU.String,
		}
	}
	if expand.User && movement.UserID != nil && userEmail.Valid {
		movement.User = &domain.UserSummary{
			ID:    *movement.UserID,
			Name:  userName.String,
			Email: userEmail.String,
		}
	}

	return &movement, nil
}

func translateInventoryError(op string, err error) error {
	switch database.ClassifyError(err) {
	case database.ErrorClassForeignKeyViolation:
		if database.ConstraintName(err) == "fk_inventory_movements_user" {
			return ErrUserReference
		}
		return ErrReferenceNotFound
	case database.ErrorClassCheckViolation:
		return fmt.Errorf("%w: %s", ErrConstraintViolated, database.ConstraintName(err))
	case database.ErrorClassDataException:
		return fmt.Errorf("%w: %v", ErrConstraintViolated, err)
	}
	return fmt.Errorf("failed to %s inventory movement: %w", op, err)
}
