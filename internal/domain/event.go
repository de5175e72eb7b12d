package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation wraps user-input failures (bad date/time, bad email, empty lists).
	ErrValidation = errors.New("validation failed")
	// ErrSlugTaken is returned when the store rejects a commit because another
	// event already holds the slug. Callers re-derive the slug and retry.
	ErrSlugTaken = errors.New("slug already in use")
)

// Event represents a published event and is the root entity of the system.
// Date and Time hold canonical forms: YYYY-MM-DD and zero-padded 24-hour HH:MM.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        string    `json:"mode"`
	Audience    string    `json:"audience"`
	Agenda      []string  `json:"agenda"`
	Organizer   string    `json:"organizer"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventUpdate carries a partial update. Nil fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Overview    *string
	Image       *string
	Venue       *string
	Location    *string
	Date        *string
	Time        *string
	Mode        *string
	Audience    *string
	Agenda      []string
	Organizer   *string
	Tags        []string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	// SlugInUse reports whether any event other than excludeID holds the slug.
	// Pass an empty excludeID when creating.
	SlugInUse(ctx context.Context, slug, excludeID string) (bool, error)
	// ListSimilarByTags returns events other than eventID whose tag set
	// intersects tags in at least one element. Result order is store-determined.
	ListSimilarByTags(ctx context.Context, eventID string, tags []string) ([]*Event, error)
}

// EventService defines the event write and read operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	UpdateEvent(ctx context.Context, slug string, upd EventUpdate) (*Event, error)
	// SimilarEvents returns other events sharing at least one tag with the
	// event identified by slug. Lookup failures are reported, not swallowed;
	// the caller decides whether to degrade to an empty list.
	SimilarEvents(ctx context.Context, slug string) ([]*Event, error)
}
