package transport

import (
	"net/http"
	"strings"

	"bakery-api/internal/middleware"
	"bakery-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0,lte=99999999.99"`
	Category    string           `json:"category" validate:"required,oneof=postre pan galletas tortas"`
	Image       string           `json:"image" validate:"max=500"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0,lte=2147483647"`
	SKU         string           `json:"sku" validate:"required,max=100"`
	Status      string           `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateProductRequest is a partial product update. precio, categoria and
// estado are accepted for price, category and status.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0,lte=99999999.99"`
	Category    *string          `json:"category" validate:"omitempty,oneof=postre pan galletas tortas"`
	Image       *string          `json:"image" validate:"omitempty,max=500"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0,lte=2147483647"`
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active inactive"`

	Precio    *decimal.Decimal `json:"precio" validate:"-"`
	Categoria *string          `json:"categoria" validate:"-"`
	Estado    *string          `json:"estado" validate:"-"`
}

// Normalize folds the legacy aliases into their canonical fields.
func (req *UpdateProductRequest) Normalize() {
	if req.Price == nil {
		req.Price = req.Precio
	}
	if req.Category == nil {
		req.Category = req.Categoria
	}
	if req.Status == nil {
		req.Status = req.Estado
	}
	req.Precio, req.Categoria, req.Estado = nil, nil, nil
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{sku}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Put("/{sku}", h.Update)
			r.Delete("/{sku}", h.Delete)
		})
	})
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	input := service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Image:       req.Image,
		SKU:         req.SKU,
		Status:      req.Status,
	}
	if req.Stock != nil {
		input.Stock = *req.Stock
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created", zap.String("sku", product.SKU))
	middleware.RespondWithData(w, http.StatusCreated, "Product created", product)
}

// List returns the catalog, optionally filtered by category and status
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	products, err := h.productService.List(r.Context(), query.Get("category"), query.Get("status"))
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, "", products)
}

// Get returns one product by SKU
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetBySKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, "", product)
}

// Update merges the supplied fields into the product with the given SKU
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	product, err := h.productService.UpdateBySKU(r.Context(), chi.URLParam(r, "sku"), service.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
		SKU:         req.SKU,
		Status:      req.Status,
	})
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Product updated", zap.String("sku", product.SKU))
	middleware.RespondWithData(w, http.StatusOK, "Product updated", product)
}

// Delete removes the product with the given SKU
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sku := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "sku")))
	if err := h.productService.DeleteBySKU(r.Context(), sku); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.String("sku", sku))
	middleware.RespondWithData(w, http.StatusOK, "Product deleted", deleted{SKU: sku})
}
