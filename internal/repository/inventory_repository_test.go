package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bakery-api/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestMovement(productID uuid.UUID, userID *uuid.UUID) *domain.InventoryMovement {
	now := time.Now().UTC()
	return &domain.InventoryMovement{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Amount:    decimal.RequireFromString("12.5"),
		Location:  "Main kitchen",
		Movement:  domain.MovementIn,
		Reason:    "Morning delivery",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInventoryRepository_Lifecycle(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	users := NewUserRepository(testDB, time.Second)
	products := NewProductRepository(testDB, time.Second)
	repo := NewInventoryRepository(testDB, time.Second)

	user := newTestUser("inventory-" + uuid.NewString()[:8] + "@bakery.test")
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	product := newTestProduct("INV-" + strings.ToUpper(uuid.NewString()[:8]))
	if err := products.Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	expires := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	movement := newTestMovement(product.ID, &user.ID)
	movement.Batch = "B-01"
	movement.ExpirationDate = &expires
	if err := repo.Create(ctx, movement); err != nil {
		t.Fatalf("create movement: %v", err)
	}

	full, err := repo.FindByID(ctx, movement.ID, InventoryExpand{Product: true, User: true})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if full.Product == nil || full.Product.SKU != product.SKU {
		t.Errorf("expected product summary for %s, got %+v", product.SKU, full.Product)
	}
	if full.User == nil || full.User.Email != user.Email {
		t.Errorf("expected user summary for %s, got %+v", user.Email, full.User)
	}
	if full.ExpirationDate == nil || !full.ExpirationDate.Equal(expires) {
		t.Errorf("expected expiration %s, got %v", expires, full.ExpirationDate)
	}
	if !full.Amount.Equal(movement.Amount) {
		t.Errorf("expected amount %s, got %s", movement.Amount, full.Amount)
	}

	bare, err := repo.FindByID(ctx, movement.ID, InventoryExpand{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if bare.Product != nil || bare.User != nil {
		t.Error("expected no summaries without expansion")
	}

	listed, err := repo.List(ctx, InventoryFilter{ProductID: &product.ID}, InventoryExpand{Product: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != movement.ID {
		t.Fatalf("expected the single movement for the product, got %d", len(listed))
	}

	if err := products.DeleteBySKU(ctx, product.SKU); !errors.Is(err, ErrProductInUse) {
		t.Errorf("expected ErrProductInUse, got %v", err)
	}

	movement.Movement = domain.MovementOut
	movement.ExpirationDate = nil
	movement.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, movement); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := repo.FindByID(ctx, movement.ID, InventoryExpand{})
	if updated.Movement != domain.MovementOut || updated.ExpirationDate != nil {
		t.Errorf("update not reflected: %+v", updated)
	}
	if updated.UserID == nil || *updated.UserID != user.ID {
		t.Error("update must keep the recorder")
	}

	if err := repo.Delete(ctx, movement.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, movement.ID); !errors.Is(err, ErrMovementNotFound) {
		t.Errorf("expected ErrMovementNotFound, got %v", err)
	}
	if err := products.DeleteBySKU(ctx, product.SKU); err != nil {
		t.Errorf("product without movements should delete: %v", err)
	}
	_, _ = testDB.Exec("DELETE FROM users WHERE id = $1", user.ID)
}

func TestInventoryRepository_UnknownProductIsRejected(t *testing.T) {
	requireDB(t)
	repo := NewInventoryRepository(testDB, time.Second)

	movement := newTestMovement(uuid.New(), nil)
	if err := repo.Create(context.Background(), movement); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestInventoryRepository_UnknownRecorderIsRejected(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	products := NewProductRepository(testDB, time.Second)
	repo := NewInventoryRepository(testDB, time.Second)

	product := newTestProduct("REC-" + strings.ToUpper(uuid.NewString()[:8]))
	if err := products.Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	defer testDB.Exec("DELETE FROM products WHERE id = $1", product.ID)

	stranger := uuid.New()
	if err := repo.Create(ctx, newTestMovement(product.ID, &stranger)); !errors.Is(err, ErrUserReference) {
		t.Fatalf("expected ErrUserReference, got %v", err)
	}
}
