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

var (
	productCategories = []string{domain.CategoryPostre, domain.CategoryPan, domain.CategoryGalletas, domain.CategoryTortas}
	productStatuses   = []string{domain.ProductStatusActive, domain.ProductStatusInactive}
)

// ProductInput carries a validated product creation request
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	Stock       int
	SKU         string
	Status      string
}

// ProductPatch holds a partial product update. Nil fields keep their value.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Image       *string
	Stock       *int
	SKU         *string
	Status      *string
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	List(ctx context.Context, category, status string) ([]*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	UpdateBySKU(ctx context.Context, sku string, patch ProductPatch) (*domain.Product, error)
	DeleteBySKU(ctx context.Context, sku string) error
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// priceScale is the number of decimal places the price column keeps.
const priceScale = 2

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// checkProduct collects every rule the merged product violates.
func checkProduct(p *domain.Product) error {
	var fields []apperror.FieldError
	if strings.TrimSpace(p.Name) == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "This field is required"})
	}
	if p.SKU == "" {
		fields = append(fields, apperror.FieldError{Field: "sku", Message: "This field is required"})
	}
	if p.Price.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "price", Message: "Value must be greater than or equal to 0"})
	}
	if p.Stock < 0 {
		fields = append(fields, apperror.FieldError{Field: "stock", Message: "Value must be greater than or equal to 0"})
	}
	if !oneOf(p.Category, productCategories...) {
		fields = append(fields, apperror.FieldError{Field: "category", Message: "Must be one of: " + strings.Join(productCategories, ", ")})
	}
	if !oneOf(p.Status, productStatuses...) {
		fields = append(fields, apperror.FieldError{Field: "status", Message: "Must be one of: " + strings.Join(productStatuses, ", ")})
	}
	if len(fields) > 0 {
		return apperror.Validation("validation failed", fields...)
	}
	return nil
}

func skuConflict(sku string) *apperror.Error {
	return apperror.Conflict(fmt.Sprintf("sku %s is already registered", sku))
}

// Create adds a product to the catalog. The SKU is stored upper-cased.
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price.Round(priceScale),
		Category:    input.Category,
		Image:       input.Image,
		Stock:       input.Stock,
		SKU:         normalizeSKU(input.SKU),
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Image == "" {
		product.Image = domain.DefaultProductImage
	}
	if product.Status == "" {
		product.Status = domain.ProductStatusActive
	}

	if err := checkProduct(product); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindBySKU(ctx, product.SKU)
	if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return nil, apperror.Internal(fmt.Errorf("failed to check existing sku: %w", err))
	}
	if existing != nil {
		return nil, skuConflict(product.SKU)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrSKUAlreadyExists) {
			return nil, skuConflict(product.SKU)
		}
		return nil, storeError(fmt.Errorf("failed to create product: %w", err))
	}

	return product, nil
}

// List returns the catalog, optionally filtered by category and status
func (s *productService) List(ctx context.Context, category, status string) ([]*domain.Product, error) {
	if category != "" && !oneOf(category, productCategories...) {
		return nil, enumError("category", productCategories...)
	}
	if status != "" && !oneOf(status, productStatuses...) {
		return nil, enumError("status", productStatuses...)
	}

	products, err := s.productRepo.List(ctx, repository.ProductFilter{Category: category, Status: status})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to list products: %w", err))
	}
	return products, nil
}

// GetBySKU retrieves a product by SKU, ignoring case
func (s *productService) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	sku = normalizeSKU(sku)
	if sku == "" {
		return nil, apperror.Field("sku", "This field is required")
	}

	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to get product: %w", err))
	}
	return product, nil
}

// UpdateBySKU merges patch into the stored product. Omitted fields are kept
// and a changed SKU must stay unique.
func (s *productService) UpdateBySKU(ctx context.Context, sku string, patch ProductPatch) (*domain.Product, error) {
	product, err := s.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = patch.Price.Round(priceScale)
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Image != nil {
		product.Image = *patch.Image
		if product.Image == "" {
			product.Image = domain.DefaultProductImage
		}
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Status != nil {
		product.Status = *patch.Status
	}

	if patch.SKU != nil {
		newSKU := normalizeSKU(*patch.SKU)
		if newSKU != product.SKU {
			other, err := s.productRepo.FindBySKU(ctx, newSKU)
			if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
				return nil, apperror.Internal(fmt.Errorf("failed to check existing sku: %w", err))
			}
			if other != nil && other.ID != product.ID {
				return nil, skuConflict(newSKU)
			}
		}
		product.SKU = newSKU
	}

	if err := checkProduct(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrSKUAlreadyExists):
			return nil, skuConflict(product.SKU)
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, apperror.NotFound("product")
		}
		return nil, storeError(fmt.Errorf("failed to update product: %w", err))
	}

	return product, nil
}

// DeleteBySKU removes a product that no inventory movement references
func (s *productService) DeleteBySKU(ctx context.Context, sku string) error {
	sku = normalizeSKU(sku)
	if sku == "" {
		return apperror.Field("sku", "This field is required")
	}

	if err := s.productRepo.DeleteBySKU(ctx, sku); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return apperror.NotFound("product")
		case errors.Is(err, repository.ErrProductInUse):
			return apperror.Conflict("product has inventory movements and cannot be deleted")
		}
		return apperror.Internal(fmt.Errorf("failed to delete product: %w", err))
	}
	return nil
}
