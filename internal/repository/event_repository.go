package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bakery-api/internal/database"
	"bakery-api/internal/domain"

	"github.com/google/uuid"
)

// EventRepository defines the interface for event data access
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, expand EventExpand) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter, expand EventExpand) ([]*domain.Event, error)
}

type eventRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewEventRepository creates a new instance of EventRepository
func NewEventRepository(db *sql.DB, timeout time.Duration) EventRepository {
	return &eventRepository{db: db, timeout: timeout}
}

const eventSelect = `
	SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.location,
	       e.status, e.image, e.organizer_id, e.created_at, e.updated_at,
	       u.name, u.email
	FROM events e
	LEFT JOIN users u ON u.id = e.organizer_id
`

// Create inserts a new event
func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO events (
			id, title, description, start_date, end_date, location,
			status, image, organizer_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.Status,
		event.Image,
		nullUUID(event.OrganizerID),
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return translateEventError("create", err)
	}

	return nil
}

// Update overwrites an existing event. The organizer is never reassigned.
func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE events
		SET title = $2, description = $3, start_date = $4, end_date = $5,
		    location = $6, status = $7, image = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.Status,
		event.Image,
		event.UpdatedAt,
	)
	if err != nil {
		return translateEventError("update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// Delete removes an event by ID
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// FindByID retrieves an event, resolving the organizer when expanded
func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID, expand EventExpand) (*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	event, err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id), expand)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event by ID: %w", err)
	}

	return event, nil
}

// List retrieves events matching the filter, newest first
func (r *eventRepository) List(ctx context.Context, filter EventFilter, expand EventExpand) ([]*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := eventSelect
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += " WHERE e.status = $1"
	}
	query += " ORDER BY e.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		event, err := scanEvent(rows, expand)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

func scanEvent(row rowScanner, expand EventExpand) (*domain.Event, error) {
	var (
		event          domain.Event
		organizerID    uuid.NullUUID
		organizerName  sql.NullString
		organizerEmail sql.NullString
	)

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.Status,
		&event.Image,
		&organizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
		&organizerName,
		&organizerEmail,
	)
	if err != nil {
		return nil, err
	}

	event.OrganizerID = uuidPtr(organizerID)
	if expand.Organizer && event.OrganizerID != nil && organizerEmail.Valid {
		event.Organizer = &domain.UserSummary{
			ID:    *event.OrganizerID,
			Name:  organizerName.String,
			Email: organizerEmail.String,
		}
	}

	return &event, nil
}

func translateEventError(op string, err error) error {
	switch database.ClassifyError(err) {
	case database.ErrorClassCheckViolation:
		if database.ConstraintName(err) == "chk_events_date_order" {
			return ErrInvalidDateRange
		}
		return fmt.Errorf("%w: %s", ErrConstraintViolated, database.ConstraintName(err))
	case database.ErrorClassForeignKeyViolation:
		if database.ConstraintName(err) == "fk_events_organizer" {
			return ErrUserReference
		}
		return ErrReferenceNotFound
	case database.ErrorClassDataException:
		return fmt.Errorf("%w: %v", ErrConstraintViolated, err)
	}
	return fmt.Errorf("failed to %s event: %w", op, err)
}
