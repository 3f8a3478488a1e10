package models

import (
	"time"

	"gorm.io/gorm"
)

// Event represents a campus event (PostgreSQL). AttendeeCount is
// denormalized over event_rsvps.
type Event struct {
	gorm.Model
	OrganizerID   uint      `json:"organizer_id" gorm:"index"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	StartsAt      time.Time `json:"starts_at" gorm:"index"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	AttendeeCount int       `json:"attendee_count" gorm:"default:0"`
}

// EventRSVP represents one user's RSVP to an event, unique per
// (user, event) pair.
type EventRSVP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"index;uniqueIndex:idx_user_event_rsvp"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_event_rsvp"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateEventRequest defines the request body for creating an event
type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=150"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=3000"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=200"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}
