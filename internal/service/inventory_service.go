package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery-api/internal/apperror"
	"bakery-api/internal/domain"
	"bakery-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var movementKinds = []string{domain.MovementIn, domain.MovementOut, domain.MovementAdjustment}

// MovementInput carries every field of an inventory movement. Create and
// update share it because an update replaces the whole record.
type MovementInput struct {
	ProductID      string
	Amount         decimal.Decimal
	Location       string
	Movement       string
	Reason         string
	Reference      string
	Notes          string
	Batch          string
	ExpirationDate *time.Time
}

// InventoryService defines the interface for inventory business logic
type InventoryService interface {
	Create(ctx context.Context, recorderID string, input MovementInput) (*domain.InventoryMovement, error)
	List(ctx context.Context, productID, movement string, expand repository.InventoryExpand) ([]*domain.InventoryMovement, error)
	GetByID(ctx context.Context, id string, expand repository.InventoryExpand) (*domain.InventoryMovement, error)
	Update(ctx context.Context, id string, input MovementInput) (*domain.InventoryMovement, error)
	Delete(ctx context.Context, id string) error
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(inventoryRepo repository.InventoryRepository) InventoryService {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

// amountScale is the number of decimal places the amount column keeps.
const amountScale = 3

func checkMovement(input MovementInput) error {
	var fields []apperror.FieldError
	if !input.Amount.Round(amountScale).IsPositive() {
		fields = append(fields, apperror.FieldError{Field: "amount", Message: "Value must be greater than 0"})
	}
	if strings.TrimSpace(input.Location) == "" {
		fields = append(fields, apperror.FieldError{Field: "location", Message: "This field is required"})
	}
	if !oneOf(input.Movement, movementKinds...) {
		fields = append(fields, apperror.FieldError{Field: "movement", Message: "Must be one of: " + strings.Join(movementKinds, ", ")})
	}
	if strings.TrimSpace(input.Reason) == "" {
		fields = append(fields, apperror.FieldError{Field: "reason", Message: "This field is required"})
	}
	if len(fields) > 0 {
		return apperror.Validation("validation failed", fields...)
	}
	return nil
}

func movementStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrReferenceNotFound):
		return apperror.Field("product_id", "Product does not exist")
	case errors.Is(err, repository.ErrMovementNotFound):
		return apperror.NotFound("inventory movement")
	}
	return storeError(err)
}

// Create records a movement on behalf of the authenticated user
func (s *inventoryService) Create(ctx context.Context, recorderID string, input MovementInput) (*domain.InventoryMovement, error) {
	productID, err := parseID("product_id", input.ProductID)
	if err != nil {
		return nil, err
	}
	userID, err := parseID("user_id", recorderID)
	if err != nil {
		return nil, err
	}
	if err := checkMovement(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	movement := &domain.InventoryMovement{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    &userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyMovement(movement, input)

	if err := s.inventoryRepo.Create(ctx, movement); err != nil {
		return nil, movementStoreError(fmt.Errorf("failed to create inventory movement: %w", err))
	}
	return movement, nil
}

func applyMovement(m *domain.InventoryMovement, input MovementInput) {
	m.Amount = input.Amount.Round(amountScale)
	m.Location = strings.TrimSpace(input.Location)
	m.Movement = input.Movement
	m.Reason = input.Reason
	m.Reference = input.Reference
	m.Notes = input.Notes
	m.Batch = input.Batch
	m.ExpirationDate = input.ExpirationDate
}

// List returns movements, optionally filtered by product and kind
func (s *inventoryService) List(ctx context.Context, productID, movement string, expand repository.InventoryExpand) ([]*domain.InventoryMovement, error) {
	var filter repository.InventoryFilter
	if productID != "" {
		id, err := parseID("product", productID)
		if err != nil {
			return nil, err
		}
		filter.ProductID = &id
	}
	if movement != "" {
		if !oneOf(movement, movementKinds...) {
			return nil, enumError("movement", movementKinds...)
		}
		filter.Movement = movement
	}

	movements, err := s.inventoryRepo.List(ctx, filter, expand)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to list inventory movements: %w", err))
	}
	return movements, nil
}

// GetByID retrieves a single movement
func (s *inventoryService) GetByID(ctx context.Context, id string, expand repository.InventoryExpand) (*domain.InventoryMovement, error) {
	movementID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	movement, err := s.inventoryRepo.FindByID(ctx, movementID, expand)
	if err != nil {
		return nil, movementStoreError(fmt.Errorf("failed to get inventory movement: %w", err))
	}
	return movement, nil
}

// Update replaces every field of an existing movement. The recorder and
// creation time never change.
func (s *inventoryService) Update(ctx context.Context, id string, input MovementInput) (*domain.InventoryMovement, error) {
	movementID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	productID, err := parseID("product_id", input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkMovement(input); err != nil {
		return nil, err
	}

	movement, err := s.inventoryRepo.FindByID(ctx, movementID, repository.InventoryExpand{})
	if err != nil {
		return nil, movementStoreError(fmt.Errorf("failed to get inventory movement: %w", err))
	}

	movement.ProductID = productID
	applyMovement(movement, input)
	movement.UpdatedAt = time.Now().UTC()

	if err := s.inventoryRepo.Update(ctx, movement); err != nil {
		return nil, movementStoreError(fmt.Errorf("failed to update inventory movement: %w", err))
	}
	return movement, nil
}

// Delete removes a movement by ID
func (s *inventoryService) Delete(ctx context.Context, id string) error {
	movementID, err := parseID("id", id)
	if err != nil {
		return err
	}

	if err := s.inventoryRepo.Delete(ctx, movementID); err != nil {
		return movementStoreError(fmt.Errorf("failed to delete inventory movement: %w", err))
	}
	return nil
}
