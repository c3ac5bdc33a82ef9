package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event statuses
const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

const DefaultEventImage = "default-event.jpg"

// Event is a scheduled bakery event. EndDate never precedes StartDate.
type Event struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	StartDate   time.Time  `json:"start_date" db:"start_date"`
	EndDate     time.Time  `json:"end_date" db:"end_date"`
	Location    string     `json:"location" db:"location"`
	Status      string     `json:"status" db:"status"`
	Image       string     `json:"image" db:"image"`
	OrganizerID *uuid.UUID `json:"organizer_id,omitempty" db:"organizer_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	Organizer *UserSummary `json:"organizer,omitempty"`
}
