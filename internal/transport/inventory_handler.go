package transport

import (
	"net/http"
	"time"

	"bakery-api/internal/apperror"
	"bakery-api/internal/middleware"
	"bakery-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MovementRequest carries a full inventory movement. ID is only read by the
// collection-level update.
type MovementRequest struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id" validate:"required"`
	Amount         *decimal.Decimal `json:"amount" validate:"required,gt=0,lte=999999999.999"`
	Location       string           `json:"location" validate:"required,max=255"`
	Movement       string           `json:"movement" validate:"required,oneof=in out adjustment"`
	Reason         string           `json:"reason" validate:"required"`
	Reference      string           `json:"reference" validate:"max=255"`
	Notes          string           `json:"notes"`
	Batch          string           `json:"batch" validate:"max=100"`
	ExpirationDate *time.Time       `json:"expiration_date"`
}

func (req *MovementRequest) input() service.MovementInput {
	return service.MovementInput{
		ProductID:      req.ProductID,
		Amount:         *req.Amount,
		Location:       req.Location,
		Movement:       req.Movement,
		Reason:         req.Reason,
		Reference:      req.Reference,
		Notes:          req.Notes,
		Batch:          req.Batch,
		ExpirationDate: req.ExpirationDate,
	}
}

// InventoryHandler handles HTTP requests for inventory movements
type InventoryHandler struct {
	inventoryService service.InventoryService
	logger           *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// RegisterRoutes registers all inventory routes. Every route requires a token.
func (h *InventoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/inventory", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Put("/", h.Update)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create records a movement for the authenticated user
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	var req MovementRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	movement, err := h.inventoryService.Create(r.Context(), userID, req.input())
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Inventory movement recorded",
		zap.String("movement_id", movement.ID.String()),
		zap.String("product_id", movement.ProductID.String()),
	)
	middleware.RespondWithData(w, http.StatusCreated, "Inventory movement recorded", movement)
}

// List returns movements filtered by the product and movement parameters
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	expand, err := inventoryExpand(r)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	query := r.URL.Query()
	movements, err := h.inventoryService.List(r.Context(), query.Get("product"), query.Get("movement"), expand)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, "", movements)
}

// Get returns a single movement
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	expand, err := inventoryExpand(r)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	movement, err := h.inventoryService.GetByID(r.Context(), chi.URLParam(r, "id"), expand)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, "", movement)
}

// Update replaces a movement. The id comes from the path, or from the body
// when the collection path is used.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req MovementRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		id = req.ID
	}
	if id == "" {
		middleware.RespondWithAppError(w, h.logger, apperror.Field("id", "This field is required"))
		return
	}

	movement, err := h.inventoryService.Update(r.Context(), id, req.input())
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Inventory movement updated", zap.String("movement_id", movement.ID.String()))
	middleware.RespondWithData(w, http.StatusOK, "Inventory movement updated", movement)
}

// Delete removes a movement
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.inventoryService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Inventory movement deleted", zap.String("movement_id", id))
	middleware.RespondWithData(w, http.StatusOK, "Inventory movement deleted", deleted{ID: id})
}
