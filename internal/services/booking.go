package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"eventfolio/internal/domain"
)

var bookingEmailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	contextTimeout time.Duration
}

// NewBookingService creates a BookingService. emailService may be nil, in
// which case no confirmation emails are sent.
func NewBookingService(bookingRepo domain.BookingRepository, eventRepo domain.EventRepository, emailService domain.EmailService, timeout time.Duration) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	if !bookingEmailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}

	// Bookings are immutable after creation, so the event reference is always
	// fresh here and the existence check runs on every create.
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := time.Now()
	booking := domain.NewBooking(event.ID, email, now, now)
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// The FK constraint backstops the window between the existence check
		// and the commit.
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if s.emailService != nil {
		data := &domain.BookingConfirmationEmailData{
			Email:      email,
			EventTitle: event.Title,
			EventDate:  event.Date,
			EventTime:  event.Time,
			Venue:      event.Venue,
			Location:   event.Location,
		}
		if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
			// Best effort: the booking is committed either way.
			log.Printf("[BOOKING] confirmation email to %s failed: %v", email, err)
		}
	}
	return booking, nil
}

func (s *bookingService) ListBookingsForEvent(ctx context.Context, slug string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	bookings, err := s.bookingRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
