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
)

var eventStatuses = []string{domain.EventStatusActive, domain.EventStatusCancelled, domain.EventStatusCompleted}

// EventInput carries a validated event creation request
type EventInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Status      string
	Image       string
}

// EventPatch holds a partial event update. Nil fields keep their value.
type EventPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	Status      *string
	Image       *string
}

// EventService defines the interface for event business logic
type EventService interface {
	Create(ctx context.Context, organizerID string, input EventInput) (*domain.Event, error)
	List(ctx context.Context, status string, expand repository.EventExpand) ([]*domain.Event, error)
	GetByID(ctx context.Context, id string, expand repository.EventExpand) (*domain.Event, error)
	Update(ctx context.Context, id string, patch EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new instance of EventService
func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

func checkEvent(e *domain.Event) error {
	var fields []apperror.FieldError
	if strings.TrimSpace(e.Title) == "" {
		fields = append(fields, apperror.FieldError{Field: "title", Message: "This field is required"})
	}
	if strings.TrimSpace(e.Description) == "" {
		fields = append(fields, apperror.FieldError{Field: "description", Message: "This field is required"})
	}
	if strings.TrimSpace(e.Location) == "" {
		fields = append(fields, apperror.FieldError{Field: "location", Message: "This field is required"})
	}
	if !oneOf(e.Status, eventStatuses...) {
		fields = append(fields, apperror.FieldError{Field: "status", Message: "Must be one of: " + strings.Join(eventStatuses, ", ")})
	}
	if e.EndDate.Before(e.StartDate) {
		fields = append(fields, apperror.FieldError{Field: "end_date", Message: "End date must not precede start date"})
	}
	if len(fields) > 0 {
		return apperror.Validation("validation failed", fields...)
	}
	return nil
}

func eventStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return apperror.NotFound("event")
	case errors.Is(err, repository.ErrReferenceNotFound):
		return apperror.Unauthorized("authenticated user no longer exists")
	}
	return storeError(err)
}

// Create schedules an event organized by the authenticated user
func (s *eventService) Create(ctx context.Context, organizerID string, input EventInput) (*domain.Event, error) {
	organizer, err := parseID("organizer_id", organizerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &domain.Event{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    strings.TrimSpace(input.Location),
		Status:      input.Status,
		Image:       input.Image,
		OrganizerID: &organizer,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if event.Status == "" {
		event.Status = domain.EventStatusActive
	}
	if event.Image == "" {
		event.Image = domain.DefaultEventImage
	}

	if err := checkEvent(event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, eventStoreError(fmt.Errorf("failed to create event: %w", err))
	}
	return event, nil
}

// List returns every event, optionally filtered by status
func (s *eventService) List(ctx context.Context, status string, expand repository.EventExpand) ([]*domain.Event, error) {
	if status != "" && !oneOf(status, eventStatuses...) {
		return nil, enumError("status", eventStatuses...)
	}

	events, err := s.eventRepo.List(ctx, repository.EventFilter{Status: status}, expand)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to list events: %w", err))
	}
	return events, nil
}

// GetByID retrieves a single event
func (s *eventService) GetByID(ctx context.Context, id string, expand repository.EventExpand) (*domain.Event, error) {
	eventID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, eventID, expand)
	if err != nil {
		return nil, eventStoreError(fmt.Errorf("failed to get event: %w", err))
	}
	return event, nil
}

// Update merges patch into the stored event. Date order is checked against
// the merged values, so a lone start or end date is compared with the
// stored counterpart.
func (s *eventService) Update(ctx context.Context, id string, patch EventPatch) (*domain.Event, error) {
	event, err := s.GetByID(ctx, id, repository.EventExpand{})
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		event.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.StartDate != nil {
		event.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		event.EndDate = *patch.EndDate
	}
	if patch.Location != nil {
		event.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Status != nil {
		event.Status = *patch.Status
	}
	if patch.Image != nil {
		event.Image = *patch.Image
		if event.Image == "" {
			event.Image = domain.DefaultEventImage
		}
	}

	if err := checkEvent(event); err != nil {
		return nil, err
	}
	event.UpdatedAt = time.Now().UTC()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, eventStoreError(fmt.Errorf("failed to update event: %w", err))
	}
	return event, nil
}

// Delete removes an event by ID
func (s *eventService) Delete(ctx context.Context, id string) error {
	eventID, err := parseID("id", id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return eventStoreError(fmt.Errorf("failed to delete event: %w", err))
	}
	return nil
}
