package domain

import (
	"context"
	"errors"
	"time"
)

// ErrEventNotFound is returned when a booking references an event that does
// not exist. The booking is not persisted.
var ErrEventNotFound = errors.New("referenced event does not exist")

// Booking represents a reservation for an event. Email is stored trimmed and
// lowercased. Bookings are never mutated after creation.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBooking returns a new Booking. ID is set by the repository on create.
func NewBooking(eventID, email string, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// BookingRepository defines storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
}

// BookingService defines booking operations.
type BookingService interface {
	// CreateBooking normalizes and validates the email, verifies the referenced
	// event exists, and commits the booking. On a missing event it returns
	// ErrEventNotFound and persists nothing.
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
	ListBookingsForEvent(ctx context.Context, slug string) ([]*Booking, error)
}
