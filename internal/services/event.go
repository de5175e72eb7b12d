package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventfolio/internal/domain"
)

// slugCommitAttempts bounds the retry loop around a uniqueness-constraint
// rejection racing with the slug probe.
const slugCommitAttempts = 3

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	trimEventFields(event)
	if err := validateEventFields(event); err != nil {
		return err
	}

	date, err := NormalizeDate(event.Date)
	if err != nil {
		return err
	}
	event.Date = date

	clock, err := NormalizeTime(event.Time)
	if err != nil {
		return err
	}
	event.Time = clock

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	for attempt := 0; attempt < slugCommitAttempts; attempt++ {
		slug, err := ensureUniqueSlug(ctx, s.eventRepo, event.Title, "")
		if err != nil {
			return err
		}
		event.Slug = slug

		err = s.eventRepo.Create(ctx, event)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrSlugTaken) {
			// A concurrent writer claimed the slug between probe and commit;
			// re-derive against fresh state.
			continue
		}
		return fmt.Errorf("create event: %w", err)
	}
	return fmt.Errorf("create event: %w", domain.ErrSlugTaken)
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, slug string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	titleChanged := false
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
		}
		if title != event.Title {
			titleChanged = true
		}
		event.Title = title
	}
	applyTrimmed(&event.Description, upd.Description)
	applyTrimmed(&event.Overview, upd.Overview)
	applyTrimmed(&event.Image, upd.Image)
	applyTrimmed(&event.Venue, upd.Venue)
	applyTrimmed(&event.Location, upd.Location)
	applyTrimmed(&event.Mode, upd.Mode)
	applyTrimmed(&event.Audience, upd.Audience)
	applyTrimmed(&event.Organizer, upd.Organizer)

	if upd.Date != nil {
		date, err := NormalizeDate(*upd.Date)
		if err != nil {
			return nil, err
		}
		event.Date = date
	}
	if upd.Time != nil {
		clock, err := NormalizeTime(*upd.Time)
		if err != nil {
			return nil, err
		}
		event.Time = clock
	}
	if upd.Agenda != nil {
		agenda := cleanList(upd.Agenda)
		if len(agenda) == 0 {
			return nil, fmt.Errorf("%w: agenda must contain at least one item", domain.ErrValidation)
		}
		event.Agenda = agenda
	}
	if upd.Tags != nil {
		tags := cleanList(upd.Tags)
		if len(tags) == 0 {
			return nil, fmt.Errorf("%w: tags must contain at least one item", domain.ErrValidation)
		}
		event.Tags = tags
	}

	event.UpdatedAt = time.Now()

	if !titleChanged {
		// Unchanged title keeps the existing slug even on re-save.
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
		return event, nil
	}

	for attempt := 0; attempt < slugCommitAttempts; attempt++ {
		newSlug, err := ensureUniqueSlug(ctx, s.eventRepo, event.Title, event.ID)
		if err != nil {
			return nil, err
		}
		event.Slug = newSlug

		err = s.eventRepo.Update(ctx, event)
		if err == nil {
			return event, nil
		}
		if errors.Is(err, domain.ErrSlugTaken) {
			continue
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return nil, fmt.Errorf("update event: %w", domain.ErrSlugTaken)
}

func (s *eventService) SimilarEvents(ctx context.Context, slug string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	similar, err := s.eventRepo.ListSimilarByTags(ctx, event.ID, event.Tags)
	if err != nil {
		return nil, fmt.Errorf("list similar events: %w", err)
	}
	return similar, nil
}

// trimEventFields trims all free-text fields and drops empty agenda/tag items.
func trimEventFields(event *domain.Event) {
	event.Title = strings.TrimSpace(event.Title)
	event.Description = strings.TrimSpace(event.Description)
	event.Overview = strings.TrimSpace(event.Overview)
	event.Image = strings.TrimSpace(event.Image)
	event.Venue = strings.TrimSpace(event.Venue)
	event.Location = strings.TrimSpace(event.Location)
	event.Date = strings.TrimSpace(event.Date)
	event.Time = strings.TrimSpace(event.Time)
	event.Mode = strings.TrimSpace(event.Mode)
	event.Audience = strings.TrimSpace(event.Audience)
	event.Organizer = strings.TrimSpace(event.Organizer)
	event.Agenda = cleanList(event.Agenda)
	event.Tags = cleanList(event.Tags)
}

func validateEventFields(event *domain.Event) error {
	if event.Title == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
	}
	if len(event.Agenda) == 0 {
		return fmt.Errorf("%w: agenda must contain at least one item", domain.ErrValidation)
	}
	if len(event.Tags) == 0 {
		return fmt.Errorf("%w: tags must contain at least one item", domain.ErrValidation)
	}
	return nil
}

func applyTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
