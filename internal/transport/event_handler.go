package transport

import (
	"net/http"
	"time"

	"bakery-api/internal/apperror"
	"bakery-api/internal/middleware"
	"bakery-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateEventRequest represents the event creation payload
type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"required"`
	StartDate   *time.Time `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date" validate:"required"`
	Location    string     `json:"location" validate:"required,max=255"`
	Status      string     `json:"status" validate:"omitempty,oneof=active cancelled completed"`
	Image       string     `json:"image" validate:"max=500"`
}

// UpdateEventRequest is a partial event update. ID is only read by the
// collection-level update.
type UpdateEventRequest struct {
	ID          string     `json:"id"`
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,min=1"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location" validate:"omitempty,min=1,max=255"`
	Status      *string    `json:"status" validate:"omitempty,oneof=active cancelled completed"`
	Image       *string    `json:"image" validate:"omitempty,max=500"`
}

// EventHandler handles HTTP requests for events
type EventHandler struct {
	eventService service.EventService
	logger       *zap.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// RegisterRoutes registers all event routes. Every route requires a token.
func (h *EventHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/events", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Put("/", h.Update)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create schedules an event organized by the authenticated user
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	var req CreateEventRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), userID, service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   *req.StartDate,
		EndDate:     *req.EndDate,
		Location:    req.Location,
		Status:      req.Status,
		Image:       req.Image,
	})
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Event created", zap.String("event_id", event.ID.String()))
	middleware.RespondWithData(w, http.StatusCreated, "Event created", event)
}

// List returns events, optionally filtered by status
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	expand, err := eventExpand(r)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	events, err := h.eventService.List(r.Context(), r.URL.Query().Get("status"), expand)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, "", events)
}

// Get returns a single event
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	expand, err := eventExpand(r)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	event, err := h.eventService.GetByID(r.Context(), chi.URLParam(r, "id"), expand)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, "", event)
}

// Update merges the supplied fields into an event. The id comes from the
// path, or from the body when the collection path is used.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
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

	event, err := h.eventService.Update(r.Context(), id, service.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Status:      req.Status,
		Image:       req.Image,
	})
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Event updated", zap.String("event_id", event.ID.String()))
	middleware.RespondWithData(w, http.StatusOK, "Event updated", event)
}

// Delete removes an event
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.eventService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Event deleted", zap.String("event_id", id))
	middleware.RespondWithData(w, http.StatusOK, "Event deleted", deleted{ID: id})
}
